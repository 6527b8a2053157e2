package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/utils"
)

const (
	DefaultUndoWindow    = 30 * time.Second
	DefaultRestoreWindow = 30 * time.Second

	leadTimeDineIn      = 15 * time.Minute
	leadTimeTakeAway    = 10 * time.Minute
	fallbackDeliveryEta = 40 * time.Minute
)

// OrderService menjalankan state machine order. Semua transisi lewat
// compareAndSwapStatus; tidak ada lock in-process karena service ini bisa
// berjalan lebih dari satu instance.
type OrderService struct {
	db            *gorm.DB
	quoter        DeliveryQuoter
	counters      *CounterService
	undoWindow    time.Duration
	restoreWindow time.Duration
}

func NewOrderService(db *gorm.DB, quoter DeliveryQuoter, counters *CounterService, undoWindow, restoreWindow time.Duration) *OrderService {
	if undoWindow <= 0 {
		undoWindow = DefaultUndoWindow
	}
	if restoreWindow <= 0 {
		restoreWindow = DefaultRestoreWindow
	}
	return &OrderService{
		db:            db,
		quoter:        quoter,
		counters:      counters,
		undoWindow:    undoWindow,
		restoreWindow: restoreWindow,
	}
}

type CreateOrderItemInput struct {
	ProductID      uint
	ProductName    string
	Quantity       int
	UnitPrice      int64
	Customizations string
}

type CreateOrderInput struct {
	CustomerID      *uint
	FulfillmentType string
	PaymentMethod   string
	PaymentToken    string
	DeliveryAddress string
	DeliveryNotes   string
	Items           []CreateOrderItemInput
}

// Caller mengidentifikasi pemanggil operasi customer: customer login (JWT)
// atau guest yang memegang guest key dari respons create.
type Caller struct {
	CustomerID *uint
	GuestKey   string
	Staff      bool
}

type CancelResult struct {
	Order           *models.Order
	RefundInitiated bool
}

// CreateOrder memvalidasi submission lalu menulis order pending + snapshot
// item dalam satu insert. Tidak ada yang tertulis kalau validasi gagal.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, &ValidationError{Code: "missing_items", Message: "order must contain at least one item"}
	}
	if input.PaymentToken == "" {
		return nil, &ValidationError{Code: "payment_required", Message: "payment token is required"}
	}
	if !ValidTokenShape(input.PaymentToken) {
		// Token yang gagal cek bentuk/expiry diperlakukan sama dengan tidak ada.
		return nil, &ValidationError{Code: "payment_required", Message: "payment token is malformed or expired"}
	}

	switch input.FulfillmentType {
	case models.FulfillmentDineIn, models.FulfillmentTakeAway, models.FulfillmentDelivery:
	default:
		return nil, &ValidationError{Code: "invalid_input", Message: fmt.Sprintf("unknown fulfillment type %q", input.FulfillmentType)}
	}

	now := time.Now()
	pendingUntil := now.Add(s.undoWindow)

	var total int64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, &ValidationError{Code: "invalid_input", Message: fmt.Sprintf("item %q has non-positive quantity", in.ProductName)}
		}
		if in.UnitPrice < 0 {
			return nil, &ValidationError{Code: "invalid_input", Message: fmt.Sprintf("item %q has negative price", in.ProductName)}
		}
		finalPrice := int64(in.Quantity) * in.UnitPrice
		total += finalPrice
		items = append(items, models.OrderItem{
			ProductID:      in.ProductID,
			ProductName:    in.ProductName,
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			FinalPrice:     finalPrice,
			Customizations: in.Customizations,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	order := models.Order{
		Reference:       uuid.NewString(),
		CustomerID:      input.CustomerID,
		FulfillmentType: input.FulfillmentType,
		TotalAmount:     total,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentToken:    input.PaymentToken,
		Status:          models.OrderStatusPending,
		PendingUntil:    &pendingUntil,
		CreatedAt:       now,
		UpdatedAt:       now,
		OrderItems:      items,
	}

	if input.CustomerID == nil {
		order.GuestKey = uuid.NewString()
	}

	if input.FulfillmentType == models.FulfillmentDelivery {
		order.DeliveryAddress = input.DeliveryAddress
		order.DeliveryNotes = input.DeliveryNotes
		if quote, err := s.quoteDelivery(input.DeliveryAddress); err != nil {
			// Collaborator tidak tersedia -> pakai fallback ETA, jangan gagalkan order.
			utils.ErrorLogger.Printf("delivery quote failed, using fallback ETA: %v", err)
		} else {
			order.DeliveryFee = quote.Fee
			order.DeliveryEtaMinutes = quote.EtaMinutes
		}
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, &DependencyError{Op: "insert order", Err: err}
	}

	return &order, nil
}

// GetOrder membaca ulang order beserta item. Engine tidak pernah menyimpan
// state order antar pemanggilan.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, &DependencyError{Op: "read order", Err: err}
	}
	return &order, nil
}

// CancelOrder membatalkan order pending milik pemanggil selama undo window
// masih berjalan. Kalau pembayaran sudah paid/captured, status pembayaran
// digeser ke refund_pending (eksekusi refund urusan collaborator).
func (s *OrderService) CancelOrder(orderID uint, caller Caller) (*CancelResult, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(order, caller); err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, &StateConflictError{Current: order.Status, Expected: models.OrderStatusPending}
	}

	now := time.Now()
	if order.PendingUntil == nil || now.After(*order.PendingUntil) {
		deadline := now
		if order.PendingUntil != nil {
			deadline = *order.PendingUntil
		}
		return nil, &WindowExpiredError{Deadline: deadline}
	}

	refundInitiated := order.PaymentStatus == models.PaymentStatusPaid ||
		order.PaymentStatus == models.PaymentStatusCaptured

	updates := map[string]interface{}{
		"status":        models.OrderStatusCancelled,
		"finalized_at":  now,
		"pending_until": nil,
		"updated_at":    now,
	}
	if refundInitiated {
		updates["payment_status"] = models.PaymentStatusRefundPending
	}

	swapped, err := s.compareAndSwapStatus(orderID, models.OrderStatusPending, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Kalah race: sweeper (atau konfirmasi eksplisit) sudah commit duluan.
		current, rerr := s.GetOrder(orderID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, &StateConflictError{Current: current.Status, Expected: models.OrderStatusPending}
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	return &CancelResult{Order: order, RefundInitiated: refundInitiated}, nil
}

// UndoCancelOrder mengembalikan order cancelled ke pending selama restore
// window (dihitung dari finalized_at). Deadline undo dimulai ulang penuh:
// customer mendapat pending_until baru, bukan sisa deadline lama.
func (s *OrderService) UndoCancelOrder(orderID uint, caller Caller) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(order, caller); err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusCancelled {
		return nil, &StateConflictError{Current: order.Status, Expected: models.OrderStatusCancelled}
	}

	now := time.Now()
	if order.FinalizedAt == nil || now.Sub(*order.FinalizedAt) > s.restoreWindow {
		deadline := now
		if order.FinalizedAt != nil {
			deadline = order.FinalizedAt.Add(s.restoreWindow)
		}
		return nil, &WindowExpiredError{Deadline: deadline}
	}

	pendingUntil := now.Add(s.undoWindow)
	updates := map[string]interface{}{
		"status":        models.OrderStatusPending,
		"finalized_at":  nil,
		"pending_until": pendingUntil,
		"updated_at":    now,
	}
	if order.PaymentStatus == models.PaymentStatusRefundPending {
		updates["payment_status"] = models.PaymentStatusPaid
	}

	swapped, err := s.compareAndSwapStatus(orderID, models.OrderStatusCancelled, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		current, rerr := s.GetOrder(orderID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, &StateConflictError{Current: current.Status, Expected: models.OrderStatusCancelled}
	}

	return s.GetOrder(orderID)
}

// FinalizeOrder meng-commit order pending menjadi placed. Idempotent untuk
// order yang sudah committed: kembalikan state sekarang tanpa menulis apa pun.
// Dipanggil oleh konfirmasi eksplisit customer/staff maupun sweeper.
func (s *OrderService) FinalizeOrder(orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.IsCommitted() {
		return order, nil
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, &StateConflictError{Current: order.Status, Expected: models.OrderStatusPending}
	}

	now := time.Now()
	readyAt := now.Add(s.leadTime(order))

	updates := map[string]interface{}{
		"status":             models.OrderStatusPlaced,
		"finalized_at":       now,
		"estimated_ready_at": readyAt,
		"pending_until":      nil,
		"updated_at":         now,
	}

	swapped, err := s.compareAndSwapStatus(orderID, models.OrderStatusPending, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Cancel customer menang race, atau finalize lain sudah lewat duluan.
		current, rerr := s.GetOrder(orderID)
		if rerr != nil {
			return nil, rerr
		}
		if current.IsCommitted() {
			return current, nil
		}
		return nil, &StateConflictError{Current: current.Status, Expected: models.OrderStatusPending}
	}

	order, err = s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	// Side effect best-effort: naikkan popularity counter per produk.
	// Kegagalan di sini tidak boleh menggagalkan finalize.
	if s.counters != nil {
		for _, item := range order.OrderItems {
			if err := s.counters.BumpProductOrders(item.ProductID, int64(item.Quantity)); err != nil {
				utils.ErrorLogger.Printf("popularity counter bump failed for product %d: %v", item.ProductID, err)
			}
		}
	}

	return order, nil
}

// SetStaffStatus menggerakkan order committed ke salah satu status dapur.
// Engine tidak memaksakan urutan antar status staff; itu urusan UI staff.
func (s *OrderService) SetStaffStatus(orderID uint, target string) (*models.Order, error) {
	if !models.StaffStatuses[target] {
		return nil, &ValidationError{Code: "invalid_status", Message: fmt.Sprintf("status %q is not a valid staff transition", target)}
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCommitted() {
		return nil, &StateConflictError{Current: order.Status, Expected: models.OrderStatusPlaced}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}

	swapped, err := s.compareAndSwapStatus(orderID, order.Status, updates)
	if err != nil {
		return nil, err
	}
	if !swapped {
		current, rerr := s.GetOrder(orderID)
		if rerr != nil {
			return nil, rerr
		}
		return nil, &StateConflictError{Current: current.Status, Expected: order.Status}
	}

	return s.GetOrder(orderID)
}

// UpdateKitchenNotes adalah satu-satunya mutasi item yang diizinkan setelah
// order keluar dari pending.
func (s *OrderService) UpdateKitchenNotes(itemID uint, notes string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, &DependencyError{Op: "read order item", Err: err}
	}

	if err := s.db.Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"kitchen_notes": notes,
			"updated_at":    time.Now(),
		}).Error; err != nil {
		return nil, &DependencyError{Op: "update order item", Err: err}
	}

	item.KitchenNotes = notes
	return &item, nil
}

// StaffOrderFilter menyaring listing staff.
type StaffOrderFilter struct {
	Statuses     []string
	DeliveryOnly bool
	From         *time.Time
	To           *time.Time
	Page         int
	PerPage      int
}

// ListStaffOrders mengembalikan order untuk sisi staff. Order pending tidak
// ikut secara default karena belum committed.
func (s *OrderService) ListStaffOrders(filter StaffOrderFilter) ([]models.Order, int64, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []string{
			models.OrderStatusPlaced,
			models.OrderStatusReceived,
			models.OrderStatusPreparing,
			models.OrderStatusReady,
			models.OrderStatusCompleted,
			models.OrderStatusCancelled,
		}
	}

	query := s.db.Model(&models.Order{}).Where("status IN ?", statuses)
	if filter.DeliveryOnly {
		query = query.Where("fulfillment_type = ?", models.FulfillmentDelivery)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &DependencyError{Op: "count orders", Err: err}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var orders []models.Order
	if err := query.Preload("OrderItems").
		Order("created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error; err != nil {
		return nil, 0, &DependencyError{Op: "list orders", Err: err}
	}

	return orders, total, nil
}

// compareAndSwapStatus adalah titik serialisasi seluruh transisi: UPDATE
// hanya mengenai baris yang statusnya masih sama dengan expected. Dua
// transisi yang bersaing untuk order yang sama tidak mungkin dua-duanya
// berhasil; yang kalah melihat RowsAffected 0.
func (s *OrderService) compareAndSwapStatus(orderID uint, expected string, updates map[string]interface{}) (bool, error) {
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, expected).
		Updates(updates)
	if result.Error != nil {
		return false, &DependencyError{Op: "conditional status update", Err: result.Error}
	}
	return result.RowsAffected == 1, nil
}

func (s *OrderService) authorizeOwner(order *models.Order, caller Caller) error {
	if caller.Staff {
		return nil
	}
	if order.CustomerID != nil {
		if caller.CustomerID == nil || *caller.CustomerID != *order.CustomerID {
			return &AuthorizationError{Message: "caller is not the order owner"}
		}
		return nil
	}
	// Guest order: harus membawa guest key dari respons create.
	if order.GuestKey == "" || caller.GuestKey != order.GuestKey {
		return &AuthorizationError{Message: "caller is not the order owner"}
	}
	return nil
}

func (s *OrderService) leadTime(order *models.Order) time.Duration {
	switch order.FulfillmentType {
	case models.FulfillmentTakeAway:
		return leadTimeTakeAway
	case models.FulfillmentDelivery:
		if order.DeliveryEtaMinutes > 0 {
			return time.Duration(order.DeliveryEtaMinutes) * time.Minute
		}
		return fallbackDeliveryEta
	default:
		return leadTimeDineIn
	}
}

func (s *OrderService) quoteDelivery(address string) (DeliveryQuote, error) {
	if s.quoter == nil {
		return DeliveryQuote{}, fmt.Errorf("no delivery quoter configured")
	}
	return s.quoter.Quote(address)
}
