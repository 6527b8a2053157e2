package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB membuka koneksi MySQL berdasarkan environment variables.
func InitDB() (*gorm.DB, error) {
	user := getEnv("DB_USER", "root")
	pass := getEnv("DB_PASS", "")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "ordering_app")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// UndoWindow adalah masa tenggang pembatalan setelah order dibuat.
func UndoWindow() time.Duration {
	return getEnvSeconds("UNDO_WINDOW_SECONDS", 30)
}

// RestoreWindow adalah masa tenggang untuk mengembalikan order yang dibatalkan.
func RestoreWindow() time.Duration {
	return getEnvSeconds("RESTORE_WINDOW_SECONDS", 30)
}

// SweepInterval adalah jarak antar eksekusi finalization sweep.
func SweepInterval() time.Duration {
	return getEnvSeconds("SWEEP_INTERVAL_SECONDS", 10)
}

// SweepSecret melindungi endpoint sweep internal.
func SweepSecret() string {
	return getEnv("SWEEP_SECRET", "")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
