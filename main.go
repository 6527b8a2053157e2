package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/ordering-app/config"
	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/router"
	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
	"gorm.io/gorm"
)

func main() {
	// Load .env sebelum apa pun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database ke utils untuk dipakai di controller
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	counters := services.NewCounterService(db)
	quoter := services.NewStandardDeliveryService()
	orders := services.NewOrderService(db, quoter, counters, config.UndoWindow(), config.RestoreWindow())
	tokens := services.NewPaymentTokenService()

	sweeper := services.NewFinalizationSweeper(db, orders)
	sweeper.Interval = config.SweepInterval()
	sweeper.Start()
	defer sweeper.Stop()

	if config.SweepSecret() == "" {
		utils.ErrorLogger.Println("Warning: SWEEP_SECRET is not set, /internal/sweep will reject all callers")
	}

	r := router.SetupRouter(db, router.Deps{
		Orders:   orders,
		Sweeper:  sweeper,
		Counters: counters,
		Tokens:   tokens,
	})

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Counter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
