// @title Progress-tracker API
// @description API for the career progress tracking app
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/csg4786/progress-tracker/internal/api"
	"github.com/csg4786/progress-tracker/internal/repository"
	"github.com/csg4786/progress-tracker/internal/service"
	"github.com/csg4786/progress-tracker/pkg/cleanup"
	"github.com/csg4786/progress-tracker/pkg/config"
	jwtservice "github.com/csg4786/progress-tracker/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	if err := repository.RunMigrations(&dbCfg); err != nil {
		log.Fatal("migrations error: " + err.Error())
	}

	usersRepo := repository.NewUsersRepo(&dbCfg)
	workspacesRepo := repository.NewWorkspacesRepo(&dbCfg)
	dailiesRepo := repository.NewDailiesRepo(&dbCfg)
	taskTypesRepo := repository.NewTaskTypesRepo(&dbCfg)
	resourcesRepo := repository.NewResourcesRepo(&dbCfg)

	accessService := service.NewAccessService(workspacesRepo)
	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(usersRepo),
		DailyService:     service.NewDailyService(dailiesRepo, taskTypesRepo, accessService),
		WorkspaceService: service.NewWorkspaceService(workspacesRepo, dailiesRepo, taskTypesRepo, resourcesRepo, usersRepo),
		TaskTypeService:  service.NewTaskTypeService(taskTypesRepo, accessService),
		ResourceService:  service.NewResourceService(resourcesRepo, accessService),
		BackupService:    service.NewBackupService(workspacesRepo, dailiesRepo, taskTypesRepo, resourcesRepo),
		JwtService:       jwtservice.New(cfg.GetString("JWT_SECRET")),
		AdminToken:       cfg.GetString("ADMIN_TOKEN"),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
