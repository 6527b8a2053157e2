package models

import (
	"time"
)

// Status order mengikuti siklus hidup:
// pending -> {placed, cancelled}; placed -> received -> preparing -> ready -> completed.
// Order cancelled hanya bisa kembali ke pending lewat undo-cancel dalam restore window.
const (
	OrderStatusPending   = "pending"
	OrderStatusPlaced    = "placed"
	OrderStatusReceived  = "received"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Status pembayaran
const (
	PaymentStatusPending       = "pending"
	PaymentStatusPaid          = "paid"
	PaymentStatusCaptured      = "captured"
	PaymentStatusRefundPending = "refund_pending"
	PaymentStatusRefunded      = "refunded"
)

// Tipe fulfillment
const (
	FulfillmentDineIn   = "dine_in"
	FulfillmentTakeAway = "take_away"
	FulfillmentDelivery = "delivery"
)

type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`

	// CustomerID nullable: guest boleh order. GuestKey dipakai guest
	// untuk membuktikan kepemilikan order saat cancel/undo.
	CustomerID *uint  `gorm:"index" json:"customer_id,omitempty"`
	GuestKey   string `gorm:"type:varchar(64)" json:"-"`

	FulfillmentType string `gorm:"type:varchar(20);not null" json:"fulfillment_type"`

	// TotalAmount dalam satuan minor (mis. sen/rupiah penuh), bukan float.
	TotalAmount int64 `gorm:"not null;default:0" json:"total_amount"`

	PaymentMethod string `gorm:"type:varchar(30)" json:"payment_method"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentToken  string `gorm:"type:varchar(128)" json:"-"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// PendingUntil terisi hanya selama status = pending.
	// FinalizedAt terisi begitu order keluar dari pending (commit ataupun cancel).
	PendingUntil     *time.Time `gorm:"index" json:"pending_until,omitempty"`
	FinalizedAt      *time.Time `json:"finalized_at,omitempty"`
	EstimatedReadyAt *time.Time `json:"estimated_ready_at,omitempty"`

	// Snapshot delivery dari collaborator; read-only bagi engine setelah create.
	DeliveryAddress    string `gorm:"type:text" json:"delivery_address,omitempty"`
	DeliveryNotes      string `gorm:"type:text" json:"delivery_notes,omitempty"`
	DeliveryFee        int64  `json:"delivery_fee,omitempty"`
	DeliveryEtaMinutes int    `json:"delivery_eta_minutes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// IsCommitted melaporkan apakah order sudah melewati fase pending
// (placed atau status dapur sesudahnya).
func (o *Order) IsCommitted() bool {
	switch o.Status {
	case OrderStatusPlaced, OrderStatusReceived, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// StaffStatuses adalah target transisi yang valid dari sisi staff.
// Urutan antar status tidak dipaksakan oleh engine.
var StaffStatuses = map[string]bool{
	OrderStatusReceived:  true,
	OrderStatusPreparing: true,
	OrderStatusReady:     true,
	OrderStatusCompleted: true,
	OrderStatusCancelled: true,
}
