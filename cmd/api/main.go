package main

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/artventure/travel-planner-backend/config"
	"github.com/artventure/travel-planner-backend/internal/bootstrap"
	"github.com/artventure/travel-planner-backend/internal/catalog"
	"github.com/artventure/travel-planner-backend/internal/storage/postgres"
	cronjob "github.com/artventure/travel-planner-backend/internal/travels/cron"
	"github.com/artventure/travel-planner-backend/internal/travels/service"
)

const serviceName = "travel-planner-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	lookup := catalog.NewCachedLookup(
		catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.RPS),
		rdb,
	)

	svc := service.NewService(db, lookup, service.NewRedisEventPublisher(rdb))

	cronjob.NewScheduler(svc).Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          db,
		Travels:     svc,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
