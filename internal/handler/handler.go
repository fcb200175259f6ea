package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/operation"
	"github.com/sysu-ecnc-dev/maintenance-manager/backend/internal/session"
)

// APIFactory 根据调用者的令牌创建访问远端接口的客户端
type APIFactory func(token string) operation.API

// JournalRepository 是 repository 中操作日志相关的部分
type JournalRepository interface {
	Record(ctx context.Context, entry domain.JournalEntry) error
	GetRecentJournal(sessionID string, limit int) ([]*domain.JournalEntry, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	remote     APIFactory
	sessions   *session.Registry
	journal    JournalRepository
	notifier   operation.Notifier

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, remote APIFactory, sessions *session.Registry, journal JournalRepository, notifier operation.Notifier) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		remote:     remote,
		sessions:   sessions,
		journal:    journal,
		notifier:   notifier,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)

	// 周期计算相关的接口不依赖会话，但仍然需要登录
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/intervals", func(r chi.Router) {
			r.Get("/presets", h.GetIntervalPresets)
			r.Post("/parse", h.ParseInterval)
			r.Post("/project", h.ProjectDueDate)
			r.Post("/validate", h.ValidateScheduleDates)
		})

		r.Get("/client-config", h.GetClientConfig)
		r.Post("/auth/logout", h.Logout)
		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/journal", h.GetJournal)
	})

	// 以下 API 都作用在当前会话的 store 上
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.operations)

		r.Route("/state", func(r chi.Router) {
			r.Get("/", h.GetState)
			r.Delete("/{resource}", h.ClearCollection)
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Get("/", h.GetAllEquipment)
			r.Get("/archived", h.GetArchivedEquipment)
			r.Get("/search", h.SearchEquipment)
			r.Get("/lookup", h.LookupEquipment)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEquipment)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID("id", EquipmentIDCtx))
				r.Get("/", h.GetEquipment)
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
					r.Patch("/", h.UpdateEquipment)
					r.Delete("/", h.DeleteEquipment)
					r.Post("/archive", h.ArchiveEquipment)
					r.Post("/unarchive", h.UnarchiveEquipment)
					r.Put("/type", h.AssignEquipmentType)
					r.Put("/workshop", h.AssignEquipmentWorkshop)
				})
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetAllSchedules)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Post("/", h.CreateSchedule)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.pathID("id", ScheduleIDCtx))
					r.Patch("/", h.UpdateSchedule)
					r.Delete("/", h.DeleteSchedule)
					r.Post("/activate", h.ActivateSchedule)
					r.Post("/deactivate", h.DeactivateSchedule)
					r.Post("/tasks", h.AddScheduleTask)
					r.Route("/tasks/{taskId}", func(r chi.Router) {
						r.Use(h.pathID("taskId", ScheduleTaskIDCtx))
						r.Patch("/", h.EditScheduleTask)
						r.Delete("/", h.DeleteScheduleTask)
						r.Put("/technician", h.AssignScheduleTaskTechnician)
					})
				})
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.GetAllTasks)
			r.Get("/equipment/{name}", h.GetTasksByEquipment)
			r.With(h.RequiredRole([]domain.Role{domain.RoleTechnician})).Get("/mine", h.GetMyTasks)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID("id", TaskIDCtx))
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteTask)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/technician", h.AssignTaskTechnician)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleTechnician})).Post("/complete", h.CompleteTask)
			})
		})

		r.Route("/technicians", func(r chi.Router) {
			r.Get("/", h.GetAllTechnicians)
			r.Get("/options", h.GetTechnicianOptions)
			r.With(h.RequiredRole([]domain.Role{domain.RoleTechnician})).Get("/me", h.GetMyTechnicianInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateTechnician)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.pathID("id", TechnicianIDCtx))
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Patch("/", h.UpdateTechnician)
				r.Delete("/", h.DeleteTechnician)
			})
		})
	})
}
