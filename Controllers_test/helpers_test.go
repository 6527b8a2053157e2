package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/router"
	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

const testSweepSecret = "sweep-secret-for-tests"

type testEnv struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Orders  *services.OrderService
	Sweeper *services.FinalizationSweeper
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	t.Setenv("SWEEP_SECRET", testSweepSecret)

	dsn := fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Counter{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	counters := services.NewCounterService(db)
	orders := services.NewOrderService(db, services.NewStandardDeliveryService(), counters, 0, 0)
	sweeper := services.NewFinalizationSweeper(db, orders)

	r := router.SetupRouter(db, router.Deps{
		Orders:   orders,
		Sweeper:  sweeper,
		Counters: counters,
		Tokens:   services.NewPaymentTokenService(),
	})

	return &testEnv{DB: db, Router: r, Orders: orders, Sweeper: sweeper}
}

func (env *testEnv) request(t *testing.T, method, url string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func (env *testEnv) issueToken(t *testing.T, amount int64) string {
	t.Helper()
	w, resp := env.request(t, "POST", "/payments/token", map[string]interface{}{
		"amount": amount,
		"method": "qris",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to issue payment token: %d %s", w.Code, w.Body.String())
	}
	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

func defaultOrderBody(token string) map[string]interface{} {
	return map[string]interface{}{
		"fulfillment_type": "take_away",
		"payment_method":   "qris",
		"payment_token":    token,
		"items": []map[string]interface{}{
			{"product_id": 1, "product_name": "Nasi Goreng", "quantity": 2, "unit_price": 28000},
			{"product_id": 2, "product_name": "Es Teh", "quantity": 2, "unit_price": 25000},
		},
	}
}

func staffAuthHeader(t *testing.T) map[string]string {
	t.Helper()
	token, err := utils.GenerateToken(1, "staff")
	if err != nil {
		t.Fatalf("failed to generate staff token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
