package models

import (
	"time"
)

// Counter adalah counter durable key -> (count, window_start).
// Dipakai untuk rate limiting per identitas dan popularity count per produk,
// supaya beberapa instance service bisa berbagi hitungan (tidak ada state
// in-memory global).
type Counter struct {
	Key         string    `gorm:"primaryKey;column:counter_key;type:varchar(120)" json:"key"`
	Count       int64     `gorm:"not null;default:0" json:"count"`
	WindowStart time.Time `gorm:"not null" json:"window_start"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
