package operation

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/store"
)

// ErrAlreadyLoaded 表示集合已经加载过，请求被拒绝但不需要提示用户
var ErrAlreadyLoaded = errors.New("集合已加载")

var (
	ErrScheduleNotLoaded     = errors.New("维护计划不存在或尚未加载")
	ErrNoCurrentTech         = errors.New("当前用户没有对应的技术员信息")
	ErrInvalidRole           = errors.New("无效的角色")
	ErrScheduleTasksInUpdate = errors.New("编辑维护计划时不能修改任务，请使用计划任务接口")
)

// OperationError 表示一次远程调用失败
type OperationError struct {
	Resource store.Resource
	Action   store.Action
	Message  string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s 失败: %s", e.Action, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func IsBenign(err error) bool {
	return errors.Is(err, ErrAlreadyLoaded)
}
