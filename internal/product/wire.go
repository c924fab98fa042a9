package product

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gandalf/internal/config"
	"gandalf/internal/product/repository"
	"gandalf/internal/product/service"
)

type Module struct {
	Controller *Controller
	Service    *service.ProductService
}

func NewModule(client *mongo.Client, cfg *config.Config, logger *zap.Logger) *Module {
	repo := repository.NewMongoProductRepository(client, cfg.Database.Name)
	svc := service.NewProductService(repo, logger, cfg.Paging.DefaultLimit, cfg.Paging.MaxLimit)

	return &Module{
		Controller: NewController(svc, logger),
		Service:    svc,
	}
}
