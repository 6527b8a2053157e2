package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/utils"
)

// DB sqlite in-memory per test; nama DSN dibedakan per test supaya tidak
// saling menimpa lewat shared cache.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Counter{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestOrderService(db *gorm.DB) *OrderService {
	counters := NewCounterService(db)
	return NewOrderService(db, NewStandardDeliveryService(), counters, 0, 0)
}

func validTestToken(t *testing.T) string {
	t.Helper()
	token, err := NewPaymentTokenService().IssueToken(PaymentTokenRequest{Amount: 10000, Method: "qris"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token.Token
}

func testOrderInput(t *testing.T) CreateOrderInput {
	return CreateOrderInput{
		FulfillmentType: models.FulfillmentTakeAway,
		PaymentMethod:   "qris",
		PaymentToken:    validTestToken(t),
		Items: []CreateOrderItemInput{
			{ProductID: 1, ProductName: "Nasi Goreng", Quantity: 2, UnitPrice: 28000},
			{ProductID: 2, ProductName: "Es Teh", Quantity: 2, UnitPrice: 25000},
		},
	}
}
