package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/notify"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 解析邮件模板
	 **********************************************/
	templates, err := notify.LoadTemplates("./templates", cfg.Email.SMTP.Username)
	if err != nil {
		logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	if err := notify.DeclareQueue(ch); err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 每次只处理一条消息，发送失败重新入队时不会堆积在本地
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 Qos", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		notify.MailQueue, // 队列
		"",               // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,            // 是否自动确认消息
		false,            // 是否独占队列
		false,            // 必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,            // 是否不等待，等待 RabbitMQ 响应
		nil,              // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				handleDelivery(logger, client, templates, msg)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("mail worker 已成功关闭")
}

func handleDelivery(logger *slog.Logger, client *mail.Client, templates *notify.Templates, msg amqp.Delivery) {
	logger.Info("收到消息", slog.String("message", string(msg.Body)))

	// 对邮件信息反序列化
	mailMessage := domain.MailMessage{}
	if err := json.Unmarshal(msg.Body, &mailMessage); err != nil {
		logger.Error("邮件信息反序列化失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	// 构建邮件，失败的消息不会重新入队
	m, err := templates.Build(mailMessage)
	if err != nil {
		logger.Error("无法构建邮件", slog.String("type", mailMessage.Type), slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	// 发送邮件
	if err := client.DialAndSend(m); err != nil {
		logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	// 确认消息
	_ = msg.Ack(false)
}
