package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/apper-apps/shophub-online-alarm/internal/config"
	"github.com/apper-apps/shophub-online-alarm/internal/handler"
	"github.com/apper-apps/shophub-online-alarm/internal/infra/catalog"
	infraRepo "github.com/apper-apps/shophub-online-alarm/internal/infra/repository"
	"github.com/apper-apps/shophub-online-alarm/internal/infra/store"
	"github.com/apper-apps/shophub-online-alarm/internal/logging"
	"github.com/apper-apps/shophub-online-alarm/internal/server"
	"github.com/apper-apps/shophub-online-alarm/internal/usecase"
)

func main() {
	// .envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.LogLevel)

	//ストア接続（SQLiteファイル、またはDATABASE_URLのPostgres）
	db, err := store.Connect(cfg.DataDir)
	if err != nil {
		log.Error("store connect failed", "error", err)
		os.Exit(1)
	}

	kv, err := store.New(db, log)
	if err != nil {
		log.Error("store migrate failed", "error", err)
		os.Exit(1)
	}

	//カタログ（埋め込みモックデータ）
	catalogRepo, err := catalog.NewRepository()
	if err != nil {
		log.Error("catalog load failed", "error", err)
		os.Exit(1)
	}

	orderRepo := infraRepo.NewOrderMemoryRepository()

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(catalogRepo, kv)
	cartUC := usecase.NewCartUsecase(kv)
	orderUC := usecase.NewOrderUsecase(orderRepo)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, orderUC, kv)

	//Handler生成
	productH := handler.NewProductHandler(catalogUC)
	cartH := handler.NewCartHandler(cartUC, catalogUC)
	checkoutH := handler.NewCheckoutHandler(checkoutUC)
	orderH := handler.NewOrderHandler(orderUC)

	//Server起動
	e := server.New(productH, cartH, checkoutH, orderH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("starting server", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
