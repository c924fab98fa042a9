package order

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gandalf/internal/audit"
	"gandalf/internal/config"
	"gandalf/internal/order/controller"
	orderrepo "gandalf/internal/order/repository"
	"gandalf/internal/order/service"
	"gandalf/internal/order/usecase"
	"gandalf/internal/payment"
	productsvc "gandalf/internal/product/service"
	"gandalf/internal/report"
	usersvc "gandalf/internal/user/service"
)

func NewModule(
	client *mongo.Client,
	cfg *config.Config,
	gateway payment.Gateway,
	products *productsvc.ProductService,
	users *usersvc.UserService,
	recorder *audit.Recorder,
	logger *zap.Logger,
) *controller.Controller {
	repo := orderrepo.NewMongoOrderRepository(client, cfg.Database.Name)
	svc := service.NewOrderService(repo, recorder, logger, cfg.Paging.DefaultLimit, cfg.Paging.MaxLimit)
	checkout := usecase.NewCheckoutUseCase(svc, products, users, gateway, logger)

	return controller.NewController(checkout, svc, report.NewGenerator(), logger)
}
