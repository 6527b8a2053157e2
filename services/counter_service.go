package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/ordering-app/models"
)

// CounterService menaikkan counter durable key -> (count, window_start).
// Menggantikan hitungan in-memory supaya beberapa instance service berbagi
// angka yang sama; increment dilakukan atomik lewat upsert.
type CounterService struct {
	db *gorm.DB
}

func NewCounterService(db *gorm.DB) *CounterService {
	return &CounterService{db: db}
}

// Increment menaikkan counter untuk key. Kalau window sudah lewat, hitungan
// dimulai ulang dari 1 dengan window_start baru (TTL eksplisit).
func (cs *CounterService) Increment(key string, delta int64, window time.Duration) error {
	now := time.Now()
	cutoff := now.Add(-window)

	counter := models.Counter{
		Key:         key,
		Count:       delta,
		WindowStart: now,
		UpdatedAt:   now,
	}

	err := cs.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "counter_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":        gorm.Expr("CASE WHEN window_start < ? THEN ? ELSE count + ? END", cutoff, delta, delta),
			"window_start": gorm.Expr("CASE WHEN window_start < ? THEN ? ELSE window_start END", cutoff, now),
			"updated_at":   now,
		}),
	}).Create(&counter).Error
	if err != nil {
		return &DependencyError{Op: "increment counter", Err: err}
	}
	return nil
}

// IncrementAndCheck menaikkan counter lalu melaporkan apakah hitungan dalam
// window masih di bawah limit. Dipakai untuk rate limiting per identitas.
func (cs *CounterService) IncrementAndCheck(key string, limit int64, window time.Duration) (bool, error) {
	if err := cs.Increment(key, 1, window); err != nil {
		return false, err
	}

	count, err := cs.Current(key)
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

// Current membaca hitungan sekarang untuk key (0 kalau belum ada).
func (cs *CounterService) Current(key string) (int64, error) {
	var counter models.Counter
	if err := cs.db.First(&counter, "counter_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, &DependencyError{Op: "read counter", Err: err}
	}
	return counter.Count, nil
}

// BumpProductOrders menaikkan counter order per produk untuk popularity
// scoring. Dipanggil sebagai side effect finalize; pemanggil yang memutuskan
// kegagalan di sini tidak fatal.
func (cs *CounterService) BumpProductOrders(productID uint, qty int64) error {
	key := fmt.Sprintf("product_orders:%d", productID)
	return cs.Increment(key, qty, 24*time.Hour)
}
