package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/api"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/interval"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailLocalPartFromChineseName 取每个字拼音的前几个字母，再加上几位数字
func GenerateEmailLocalPartFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	localPart := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		localPart += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[rand.Intn(len(digits))])
	}

	return localPart
}

var specialties = []string{"电气", "机械", "液压", "暖通", "仪表", "焊接"}

func GenerateRandomTechnician(emailDomainName string) api.TechnicianRequest {
	fullName := GenerateRandomChineseName()

	phone := "13"
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}

	return api.TechnicianRequest{
		FullName:  fullName,
		Email:     GenerateEmailLocalPartFromChineseName(fullName) + "@" + emailDomainName,
		Phone:     phone,
		Specialty: specialties[rand.Intn(len(specialties))],
	}
}

var letters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var equipmentTypes = []string{"空压机", "水泵", "车床", "铣床", "叉车", "锅炉", "冷却塔", "变压器"}
var workshops = []string{"一号车间", "二号车间", "三号车间", "装配车间", "动力站"}

func GenerateRandomEquipment() api.CreateEquipmentRequest {
	equipmentType := equipmentTypes[rand.Intn(len(equipmentTypes))]
	workshop := workshops[rand.Intn(len(workshops))]

	return api.CreateEquipmentRequest{
		Name:         equipmentType + "-" + GenerateRandomID(1, 3),
		Type:         equipmentType,
		Location:     workshop,
		SerialNumber: "SN" + GenerateRandomID(4, 8),
		Model:        GenerateRandomID(2, 4),
		Workshop: domain.Workshop{
			Name:     workshop,
			Location: workshop,
		},
	}
}

var priorities = []domain.Priority{
	domain.PriorityLow,
	domain.PriorityMedium,
	domain.PriorityHigh,
	domain.PriorityUrgent,
}

var scheduleTypes = []interval.ScheduleType{
	interval.ScheduleTypeDaily,
	interval.ScheduleTypeWeekly,
	interval.ScheduleTypeMonthly,
	interval.ScheduleTypeYearly,
	interval.ScheduleTypeCustom,
}

var taskNames = []string{"检查润滑", "更换滤芯", "紧固螺栓", "清洁散热片", "校准仪表", "检查皮带", "测量绝缘电阻"}

func randomTechnician(technicianIDs []int64) int64 {
	if len(technicianIDs) == 0 || rand.Intn(4) == 0 {
		return 0
	}
	return technicianIDs[rand.Intn(len(technicianIDs))]
}

// GenerateRandomScheduleDraft 生成一个能通过校验的维护计划，开始日期在 today 之后的 30 天内
func GenerateRandomScheduleDraft(equipmentID int64, technicianIDs []int64, today time.Time) domain.ScheduleDraft {
	scheduleType := scheduleTypes[rand.Intn(len(scheduleTypes))]
	start := interval.DateOf(today).AddDate(0, 0, rand.Intn(30))

	draft := domain.ScheduleDraft{
		Name:        "维护计划" + GenerateRandomID(3, 3),
		Type:        scheduleType,
		IsActive:    rand.Intn(2) == 0,
		StartDate:   start,
		EquipmentID: equipmentID,
	}

	if scheduleType == interval.ScheduleTypeCustom {
		draft.Interval = fmt.Sprintf("%d", rand.Intn(interval.MaxDays)+1)
	}
	if rand.Intn(2) == 0 {
		draft.EndDate = start.AddDate(0, rand.Intn(12)+1, 0)
	}

	tasksNum := rand.Intn(4) + 1
	for i := 0; i < tasksNum; i++ {
		task := domain.ScheduleTaskDraft{
			Name:         taskNames[rand.Intn(len(taskNames))],
			Priority:     priorities[rand.Intn(len(priorities))],
			TechnicianID: randomTechnician(technicianIDs),
		}
		if rand.Intn(2) == 0 {
			task.Interval = fmt.Sprintf("%d", rand.Intn(interval.MaxDays)+1)
		}
		draft.Tasks = append(draft.Tasks, task)
	}

	return draft
}

func GenerateRandomTaskDraft(equipmentID int64, technicianIDs []int64, today time.Time) domain.TaskDraft {
	return domain.TaskDraft{
		Name:         taskNames[rand.Intn(len(taskNames))],
		EquipmentID:  equipmentID,
		Priority:     priorities[rand.Intn(len(priorities))],
		DueDate:      interval.DateOf(today).AddDate(0, 0, rand.Intn(60)-15),
		TechnicianID: randomTechnician(technicianIDs),
	}
}
