package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
)

// 设备台账 CSV 的表头
const (
	HeaderName         = "名称"
	HeaderType         = "类型"
	HeaderLocation     = "位置"
	HeaderSerialNumber = "序列号"
	HeaderModel        = "型号"
	HeaderWorkshop     = "车间"
	HeaderLatitude     = "纬度"
	HeaderLongitude    = "经度"
)

var requiredHeaders = []string{HeaderName, HeaderType}

type EquipmentCreator interface {
	CreateEquipment(ctx context.Context, req api.CreateEquipmentRequest) (domain.Equipment, error)
}

// ImportEquipmentFile 从文件导入设备台账
func ImportEquipmentFile(ctx context.Context, c EquipmentCreator, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return ImportEquipment(ctx, c, file)
}

// ImportEquipment 逐行创建设备，单行失败只记录日志，返回成功导入的数量
func ImportEquipment(ctx context.Context, c EquipmentCreator, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, h := range requiredHeaders {
		if !slices.Contains(headers, h) {
			return 0, fmt.Errorf("没有找到 %q 列", h)
		}
	}

	cnt := 0
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cnt, fmt.Errorf("读取文件失败: %w", err)
		}
		line++

		record := make(map[string]string)
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		req, err := equipmentFromRecord(record)
		if err != nil {
			slog.Error("跳过无效的设备记录", "line", line, "error", err)
			continue
		}

		if _, err := c.CreateEquipment(ctx, req); err != nil {
			slog.Error("插入设备失败", "line", line, "name", req.Name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("导入设备完成", "count", cnt)
	return cnt, nil
}

func equipmentFromRecord(record map[string]string) (api.CreateEquipmentRequest, error) {
	req := api.CreateEquipmentRequest{
		Name:         record[HeaderName],
		Type:         record[HeaderType],
		Location:     record[HeaderLocation],
		SerialNumber: record[HeaderSerialNumber],
		Model:        record[HeaderModel],
	}
	if req.Name == "" {
		return req, errors.New("设备名称为空")
	}

	if name := record[HeaderWorkshop]; name != "" {
		req.Workshop = domain.Workshop{Name: name, Location: req.Location}

		lat, err := parseCoordinate(record[HeaderLatitude], 90)
		if err != nil {
			return req, fmt.Errorf("纬度无效: %w", err)
		}
		lng, err := parseCoordinate(record[HeaderLongitude], 180)
		if err != nil {
			return req, fmt.Errorf("经度无效: %w", err)
		}
		req.Workshop.Latitude = lat
		req.Workshop.Longitude = lng
	}

	return req, nil
}

func parseCoordinate(s string, limit float64) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if v < -limit || v > limit {
		return nil, fmt.Errorf("%v 超出范围", v)
	}
	return &v, nil
}
