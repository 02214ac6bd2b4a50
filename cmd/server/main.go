package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"sahaaya.org/actionhub/internal/bootstrap"
	"sahaaya.org/actionhub/internal/config"
	"sahaaya.org/actionhub/internal/server"
	"sahaaya.org/actionhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedProjects(db); err != nil {
		log.Fatalf("failed to seed projects: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Redis is optional: without it rate limiting and live notifications
	// are disabled but the API still works.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without Redis")
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("🚀 Action Hub listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
