package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "estate-backoffice/internal/adapter/http"
	appmw "estate-backoffice/internal/adapter/middleware"
	"estate-backoffice/internal/adapter/repository/mysql"
	"estate-backoffice/internal/config"
	"estate-backoffice/internal/infrastructure/cache"
	"estate-backoffice/internal/infrastructure/db"
	"estate-backoffice/internal/notify"
	blockUC "estate-backoffice/internal/usecase/block"
	dealUC "estate-backoffice/internal/usecase/deal"
	planUC "estate-backoffice/internal/usecase/plan"
	policyUC "estate-backoffice/internal/usecase/policy"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	planRepo := mysql.NewPlanRepository(gdb)
	dealRepo := mysql.NewDealRepository(gdb)
	unitRepo := mysql.NewUnitRepository(gdb)
	policyRepo := mysql.NewPolicyRepository(gdb)
	blockRepo := mysql.NewBlockRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	notifier := notify.NewGormNotifier(gdb)

	planUsecase := planUC.NewUsecase(planRepo, dealRepo, uow, notifier)
	dealUsecase := dealUC.NewUsecase(dealRepo, unitRepo, uow)
	blockUsecase := blockUC.NewUsecase(blockRepo, unitRepo, uow, notifier)
	policyUsecase := policyUC.NewUsecase(policyRepo)

	h := httpadp.NewHandler()
	planHandler := httpadp.NewPlanHandler(planUsecase)
	dealHandler := httpadp.NewDealHandler(dealUsecase)
	blockHandler := httpadp.NewBlockHandler(blockUsecase)
	calcHandler := httpadp.NewCalcHandler(unitRepo)
	policyHandler := httpadp.NewPolicyHandler(policyUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("/api",
		appmw.Identity(),
		appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	api.POST("/deals", dealHandler.Create)
	api.GET("/deals", dealHandler.List)
	api.GET("/deals/:deal_id", dealHandler.Get)
	api.GET("/deals/:deal_id/history", dealHandler.History)
	api.POST("/deals/:deal_id/override/request", dealHandler.RequestOverride)
	api.POST("/deals/:deal_id/override/approve", dealHandler.ApproveOverride)
	api.POST("/deals/:deal_id/override/reject", dealHandler.RejectOverride)

	api.POST("/payment-plans", planHandler.Create)
	api.GET("/payment-plans", planHandler.List)
	api.GET("/payment-plans/:plan_id", planHandler.Get)
	api.GET("/payment-plans/:plan_id/history", planHandler.History)
	api.PATCH("/payment-plans/:plan_id/approve", planHandler.Approve)
	api.PATCH("/payment-plans/:plan_id/reject", planHandler.Reject)
	api.POST("/payment-plans/:plan_id/votes", planHandler.Vote)
	api.POST("/payment-plans/:plan_id/new-version", planHandler.NewVersion)
	api.PATCH("/payment-plans/:plan_id/mark-accepted", planHandler.MarkAccepted)

	api.POST("/calculate", calcHandler.Calculate)

	api.POST("/blocks/request", blockHandler.Request)
	api.GET("/blocks/current", blockHandler.ListCurrent)
	api.PATCH("/blocks/:block_id/approve", blockHandler.Approve)
	api.PATCH("/blocks/:block_id/reject", blockHandler.Reject)
	api.PATCH("/blocks/:block_id/extend", blockHandler.Extend)

	api.POST("/policies", policyHandler.Create)
	api.GET("/policies", policyHandler.List)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go blockUsecase.RunExpirySweeper(sweepCtx, time.Duration(cfg.BlockSweepSecs)*time.Second)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
