package user

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gandalf/internal/config"
	"gandalf/internal/report"
	"gandalf/internal/user/repository"
	"gandalf/internal/user/service"
)

type Module struct {
	Controller *Controller
	Service    *service.UserService
}

func NewModule(client *mongo.Client, cfg *config.Config, logger *zap.Logger) *Module {
	repo := repository.NewMongoUserRepository(client, cfg.Database.Name)
	svc := service.NewUserService(repo, logger, cfg.Paging.DefaultLimit, cfg.Paging.MaxLimit)

	return &Module{
		Controller: NewController(svc, report.NewGenerator(), logger),
		Service:    svc,
	}
}
