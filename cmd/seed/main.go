package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/utils"
)

func main() {
	var op int
	var n int
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机技术员, 2: 插入随机设备, 3: 插入随机维护计划, 4: 插入随机维护任务, 5: 导入设备台账)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&file, "file", "./internal/seed/data/equipment.csv", "设备台账 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Seed.Token == "" {
		logger.Error("未配置 SEED_TOKEN，无法调用远端接口")
		os.Exit(1)
	}

	// 通过 operation 调用远端接口，这样插入的数据同样经过校验和到期日计算
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.Timeout) * time.Second,
	}).WithToken(cfg.Seed.Token)
	svc := operation.New(client, store.New())

	ctx := context.Background()

	if op >= 1 && op <= 4 && n <= 0 {
		slog.Error("请输入合法的记录数量")
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		cnt := 0
		for i := 0; i < n; i++ {
			req := utils.GenerateRandomTechnician(cfg.Seed.EmailDomain)
			if _, err := svc.CreateTechnician(ctx, req); err != nil {
				slog.Error("无法插入技术员", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入技术员成功", slog.Int("count", cnt))
	case 2:
		cnt := 0
		for i := 0; i < n; i++ {
			req := utils.GenerateRandomEquipment()
			if _, err := svc.CreateEquipment(ctx, req); err != nil {
				slog.Error("无法插入设备", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入设备成功", slog.Int("count", cnt))
	case 3, 4:
		equipmentIDs, technicianIDs, ok := fetchIDs(ctx, svc)
		if !ok {
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			// 随机选一台设备
			equipmentID := equipmentIDs[rand.Intn(len(equipmentIDs))]

			if op == 3 {
				draft := utils.GenerateRandomScheduleDraft(equipmentID, technicianIDs, time.Now())
				if _, err := svc.CreateSchedule(ctx, draft); err != nil {
					slog.Error("无法插入维护计划", slog.String("error", err.Error()))
					continue
				}
			} else {
				draft := utils.GenerateRandomTaskDraft(equipmentID, technicianIDs, time.Now())
				if _, err := svc.CreateTask(ctx, draft); err != nil {
					slog.Error("无法插入维护任务", slog.String("error", err.Error()))
					continue
				}
			}

			cnt++
		}

		slog.Info("插入记录成功", slog.Int("op", op), slog.Int("count", cnt))
	case 5:
		cnt, err := seed.ImportEquipmentFile(ctx, svc, file)
		if err != nil {
			slog.Error("无法导入设备台账", slog.String("file", file), slog.String("error", err.Error()))
			return
		}

		slog.Info("导入设备台账成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}

// fetchIDs 获取现有设备和技术员的 ID，维护计划和任务都需要关联到已有设备
func fetchIDs(ctx context.Context, svc *operation.Service) ([]int64, []int64, bool) {
	equipment, err := svc.FetchEquipment(ctx)
	if err != nil {
		slog.Error("无法获取设备列表", slog.String("error", err.Error()))
		return nil, nil, false
	}
	if len(equipment) == 0 {
		slog.Error("没有可用的设备，请先插入设备")
		return nil, nil, false
	}

	equipmentIDs := make([]int64, 0, len(equipment))
	for _, e := range equipment {
		equipmentIDs = append(equipmentIDs, e.ID)
	}

	options, err := svc.FetchTechnicianOptions(ctx)
	if err != nil {
		slog.Error("无法获取技术员列表", slog.String("error", err.Error()))
		return nil, nil, false
	}

	technicianIDs := make([]int64, 0, len(options))
	for _, o := range options {
		technicianIDs = append(technicianIDs, o.ID)
	}

	return equipmentIDs, technicianIDs, true
}
