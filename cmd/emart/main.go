package main

import (
	"context"
	"log/slog"
	"os"

	"emart/config"
	"emart/internal/delivery"
	"emart/internal/delivery/api"
	apimiddleware "emart/internal/delivery/api/middleware"
	"emart/internal/delivery/api/router/handler"
	"emart/internal/infra/ai"
	"emart/internal/infra/auth"
	"emart/internal/infra/eventbus"
	logs "emart/internal/infra/log"
	"emart/internal/infra/mail"
	"emart/internal/infra/notification"
	"emart/internal/infra/persistence"
	"emart/internal/infra/qrcode"
	"emart/internal/infra/upload"
	"emart/internal/usecase"
	"emart/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedCatalog,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		persistence.Module,
		eventbus.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			notification.NewFirebaseService,
			qrcode.NewQRCodeService,
			ai.NewTextGenerator,
			upload.NewImageUploader,
			mail.NewLogMailer,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewCatalogService,
			impl.NewReviewService,
			impl.NewCategoryService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewUserService,
			impl.NewOwnerService,
			impl.NewPasswordResetService,
			impl.NewChatService,
			impl.NewContactService,
			impl.NewContentService,
			impl.NewRecommendationService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewAuthMiddleware,
			apimiddleware.NewOwnerPINMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewAccountHandler,
			handler.NewCatalogHandler,
			handler.NewCategoryHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewChatHandler,
			handler.NewContactHandler,
			handler.NewContentHandler,
			handler.NewRecommendationHandler,
			handler.NewDeviceHandler,
			handler.NewSessionHandler,
			handler.NewEventHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedCatalog fills an empty store with the default categories and products before serving.
func seedCatalog(lc fx.Lifecycle, catalogUC usecase.CatalogUsecase) {
	lc.Append(fx.Hook{
		OnStart: catalogUC.SeedCatalog,
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
