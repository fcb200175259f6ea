package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/session"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 确保操作日志表存在，并清理过期的日志
	 **********************************************/
	if err := repo.EnsureJournalTable(); err != nil {
		logger.Error("无法创建操作日志表", "error", err)
		return
	}
	if cfg.Journal.RetentionDays > 0 {
		n, err := repo.DeleteJournalBefore(time.Now().AddDate(0, 0, -cfg.Journal.RetentionDays))
		if err != nil {
			logger.Warn("无法清理过期的操作日志", "error", err)
		} else {
			logger.Info("已清理过期的操作日志", "count", n)
		}
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 声明队列
	if err := notify.DeclareQueue(ch); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	publisher := notify.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 创建会话注册表
	 **********************************************/
	cache := session.NewRedisCache(rdb, time.Duration(cfg.Redis.SnapshotExpiration)*time.Second)
	sessions := session.NewRegistry(
		session.WithCache(cache, time.Duration(cfg.Redis.OperationTimeout)*time.Second),
		session.WithStrictOrdering(cfg.Store.StrictOrdering),
		session.WithIdleTimeout(time.Duration(cfg.Store.IdleTimeout)*time.Second),
	)

	// 定期清理空闲会话，快照仍保存在 redis 中
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go sessions.Cleanup(cleanupCtx, time.Duration(cfg.Store.SweepInterval)*time.Second)

	/**********************************************
	 * 创建远端接口客户端
	 **********************************************/
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.Timeout) * time.Second,
	})
	factory := func(token string) operation.API {
		return client.WithToken(token)
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, factory, sessions, repo, publisher)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "strictOrdering", cfg.Store.StrictOrdering)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")
	stopCleanup()

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
