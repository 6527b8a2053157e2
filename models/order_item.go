package models

import (
	"time"
)

// OrderItem menyimpan snapshot harga & kustomisasi pada saat order dibuat.
// Harga tidak pernah dihitung ulang dari katalog setelah order masuk.
// Setelah order keluar dari pending, satu-satunya field yang boleh berubah
// adalah KitchenNotes.
type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	ProductID   uint   `gorm:"not null" json:"product_id"`
	ProductName string `gorm:"type:varchar(120);not null" json:"product_name"`

	Quantity   int   `gorm:"not null" json:"quantity"`
	UnitPrice  int64 `gorm:"not null" json:"unit_price"`
	FinalPrice int64 `gorm:"not null" json:"final_price"`

	// Customizations: snapshot JSON pilihan customer (topping, level pedas, dst).
	Customizations string `gorm:"type:text" json:"customizations,omitempty"`
	KitchenNotes   string `gorm:"type:text" json:"kitchen_notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
