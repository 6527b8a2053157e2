package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/ordering-app/models"
)

func TestCreateAndGetOrder(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	w, resp := env.request(t, "POST", "/orders", defaultOrderBody(token), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Order created", resp["message"])

	data := resp["data"].(map[string]interface{})
	guestKey, ok := data["guest_key"].(string)
	require.True(t, ok, "guest order should return guest_key")

	order := data["order"].(map[string]interface{})
	orderID := int(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, float64(106000), order["total_amount"])
	assert.NotNil(t, order["pending_until"])

	// Detail order dengan guest key
	w, resp = env.request(t, "GET", fmt.Sprintf("/orders/%d", orderID), nil,
		map[string]string{"X-Guest-Key": guestKey})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order detail", resp["message"])

	// Tanpa guest key ditolak
	w, resp = env.request(t, "GET", fmt.Sprintf("/orders/%d", orderID), nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", resp["error_code"])
}

func TestCreateOrderRejections(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	// Tanpa item
	body := defaultOrderBody(token)
	body["items"] = []map[string]interface{}{}
	w, resp := env.request(t, "POST", "/orders", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_items", resp["error_code"])

	// Tanpa payment token
	body = defaultOrderBody("")
	w, resp = env.request(t, "POST", "/orders", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment_required", resp["error_code"])

	// Tidak ada order yang tertulis
	var count int64
	env.DB.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestFulfillmentAliasResolution(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	body := defaultOrderBody(token)
	delete(body, "fulfillment_type")
	body["delivery_option"] = "takeaway" // alias client lama

	w, resp := env.request(t, "POST", "/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	order := resp["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "take_away", order["fulfillment_type"])
}

func TestCancelAndUndoCancelOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	w, resp := env.request(t, "POST", "/orders", defaultOrderBody(token), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]interface{})
	guestKey := data["guest_key"].(string)
	orderID := int(data["order"].(map[string]interface{})["id"].(float64))
	guestHeader := map[string]string{"X-Guest-Key": guestKey}

	// Cancel tanpa identitas -> forbidden
	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", resp["error_code"])

	// Cancel dengan guest key
	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil, guestHeader)
	require.Equal(t, http.StatusOK, w.Code)
	cancelData := resp["data"].(map[string]interface{})
	assert.Equal(t, false, cancelData["refund_initiated"])
	assert.Equal(t, "cancelled", cancelData["order"].(map[string]interface{})["status"])

	// Cancel kedua -> state conflict
	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil, guestHeader)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", resp["error_code"])

	// Undo-cancel mengembalikan ke pending dengan deadline baru
	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/undo-cancel", orderID), nil, guestHeader)
	require.Equal(t, http.StatusOK, w.Code)
	restored := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", restored["status"])
	assert.NotNil(t, restored["pending_until"])
}

func TestCancelUnknownOrder(t *testing.T) {
	env := setupTestEnv(t)

	w, resp := env.request(t, "POST", "/orders/9999/cancel", nil,
		map[string]string{"X-Guest-Key": "anything"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["error_code"])
}

func TestExplicitFinalizeOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	w, resp := env.request(t, "POST", "/orders", defaultOrderBody(token), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]interface{})
	guestKey := data["guest_key"].(string)
	orderID := int(data["order"].(map[string]interface{})["id"].(float64))
	guestHeader := map[string]string{"X-Guest-Key": guestKey}

	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/finalize", orderID), nil, guestHeader)
	require.Equal(t, http.StatusOK, w.Code)
	placed := resp["data"].(map[string]interface{})
	assert.Equal(t, "placed", placed["status"])
	assert.NotNil(t, placed["estimated_ready_at"])

	// Finalize kedua idempotent
	w, resp = env.request(t, "POST", fmt.Sprintf("/orders/%d/finalize", orderID), nil, guestHeader)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "placed", resp["data"].(map[string]interface{})["status"])
}
