package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csg4786/progress-tracker/internal/service"
)

type Server struct {
	mx               *chi.Mux
	userService      service.UserServiceI
	dailyService     service.DailyServiceI
	workspaceService service.WorkspaceServiceI
	taskTypeService  service.TaskTypeServiceI
	resourceService  service.ResourceServiceI
	backupService    service.BackupServiceI
	jwtService       JWTServiceI
	adminToken       string
}

type ServicesList struct {
	UserService      service.UserServiceI
	DailyService     service.DailyServiceI
	WorkspaceService service.WorkspaceServiceI
	TaskTypeService  service.TaskTypeServiceI
	ResourceService  service.ResourceServiceI
	BackupService    service.BackupServiceI
	JwtService       JWTServiceI
	AdminToken       string
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:               chi.NewMux(),
		userService:      servicesOptions.UserService,
		dailyService:     servicesOptions.DailyService,
		workspaceService: servicesOptions.WorkspaceService,
		taskTypeService:  servicesOptions.TaskTypeService,
		resourceService:  servicesOptions.ResourceService,
		backupService:    servicesOptions.BackupService,
		jwtService:       servicesOptions.JwtService,
		adminToken:       servicesOptions.AdminToken,
	}
}

func (s *Server) Routes() *chi.Mux {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)

			r.Delete("/auth/account", s.DeleteAccount)
			r.Get("/users/search", s.SearchUsers)

			r.Route("/daily", func(r chi.Router) {
				r.Post("/", s.UpsertDaily)
				r.Get("/", s.ListDaily)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetDaily)
					r.Delete("/", s.DeleteDaily)
					r.Post("/tasks", s.AddTask)
					r.Post("/tasks/reorder", s.ReorderTasks)
					r.Patch("/tasks/{taskID}", s.UpdateTask)
					r.Delete("/tasks/{taskID}", s.DeleteTask)
					r.Post("/tasks/{taskID}/toggle", s.ToggleTask)
					r.Post("/tasks/{taskID}/copy-to-today", s.CopyTaskToToday)
				})
			})

			r.Route("/workspaces", func(r chi.Router) {
				r.Post("/", s.CreateWorkspace)
				r.Get("/", s.ListWorkspaces)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetWorkspace)
					r.Put("/", s.UpdateWorkspace)
					r.Delete("/", s.DeleteWorkspace)
					r.Post("/share", s.ShareWorkspace)
					r.Get("/members", s.ListWorkspaceMembers)
				})
			})

			r.Route("/task-types", func(r chi.Router) {
				r.Post("/", s.CreateTaskType)
				r.Get("/", s.ListTaskTypes)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetTaskType)
					r.Put("/", s.UpdateTaskType)
					r.Delete("/", s.DeleteTaskType)
					r.Post("/fields", s.AddTaskTypeField)
					r.Delete("/fields/{fieldName}", s.RemoveTaskTypeField)
				})
			})

			r.Route("/resources/{kind}", func(r chi.Router) {
				r.Post("/", s.CreateResource)
				r.Get("/", s.ListResources)
				r.Get("/{id}", s.GetResource)
				r.Patch("/{id}", s.UpdateResource)
				r.Delete("/{id}", s.DeleteResource)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.AdminMiddleware)
			r.Get("/admin/backup", s.ExportBackup)
			r.Post("/admin/backup", s.ImportBackup)
		})
	})
	return s.mx
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.Routes())
}
