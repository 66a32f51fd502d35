package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/reservaya/booking-api/internal/config"
	dbpkg "github.com/reservaya/booking-api/internal/db"
	"github.com/reservaya/booking-api/internal/infra/payments"
	"github.com/reservaya/booking-api/internal/infra/storage"
	"github.com/reservaya/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	deps := routes.Deps{
		Redis: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}),
	}

	if cfg.S3Bucket != "" {
		uploader, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("failed to init s3 storage: %v", err)
		}
		deps.Storage = uploader
	}

	if cfg.MercadoPagoAccessToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Fatalf("failed to init mercadopago: %v", err)
		}
		deps.Payments = mp
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, deps)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
