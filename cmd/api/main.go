package main

import (
	"log/slog"
	"os"

	"agora/internal/config"
	"agora/internal/domain/model"
	"agora/internal/handler"
	"agora/internal/infra/db"
	"agora/internal/infra/images"
	infraRepo "agora/internal/infra/repository"
	"agora/internal/server"
	"agora/internal/usecase"

	"github.com/joho/godotenv"
)

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func main() {
	// .envは無ければ無いでよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Business{},
		&model.BusinessAssociation{},
		&model.Product{},
		&model.ProductImage{},
		&model.Category{},
		&model.ProductCategory{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	imageRepo := infraRepo.NewProductImageGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	businessRepo := infraRepo.NewBusinessGormRepository(gormDB)
	assocRepo := infraRepo.NewAssociationGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//画像の保存先
	store := images.NewStore(cfg.AssetsRoot)

	//Usecase生成
	authz := usecase.NewAuthzService(assocRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo)
	profileUC := usecase.NewProfileUsecase(userRepo, store)
	catalogUC := usecase.NewCatalogUsecase(productRepo, imageRepo, businessRepo, categoryRepo, authz)
	cartUC := usecase.NewCartUsecase(txm)
	orderUC := usecase.NewOrderUsecase(txm)
	sellerOrderUC := usecase.NewSellerOrderUsecase(txm, authz)
	productUC := usecase.NewProductUsecase(txm, store, authz)
	businessUC := usecase.NewBusinessUsecase(txm, userRepo, store, authz)
	adminUC := usecase.NewAdminUsecase(txm)

	//Handler生成
	handlers := server.Handlers{
		Auth:           handler.NewAuthHandler(authUC),
		Profile:        handler.NewProfileHandler(profileUC),
		Catalog:        handler.NewCatalogHandler(catalogUC),
		Cart:           handler.NewCartHandler(cartUC, orderUC),
		Order:          handler.NewOrderHandler(orderUC),
		SellerProduct:  handler.NewSellerProductHandler(productUC),
		SellerBusiness: handler.NewSellerBusinessHandler(businessUC),
		SellerOrder:    handler.NewSellerOrderHandler(sellerOrderUC),
		Admin:          handler.NewAdminHandler(adminUC),
	}

	//Server起動
	e := server.New(cfg, logger)
	server.RegisterRoutes(e, cfg, handlers)

	slog.Info("starting server", "port", cfg.Port, "env", cfg.GoEnv)
	if err := server.Start(e, cfg); err != nil {
		panic(err)
	}
}
