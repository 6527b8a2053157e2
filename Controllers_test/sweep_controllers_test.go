package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/ordering-app/models"
)

func TestSweepEndpointRequiresSecret(t *testing.T) {
	env := setupTestEnv(t)

	// Tanpa header
	w, resp := env.request(t, "POST", "/internal/sweep", nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", resp["error_code"])

	// Secret salah
	w, resp = env.request(t, "POST", "/internal/sweep", nil,
		map[string]string{"X-Sweep-Secret": "wrong-secret"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", resp["error_code"])
}

func TestSweepEndpointFinalizesLapsedOrders(t *testing.T) {
	env := setupTestEnv(t)
	token := env.issueToken(t, 106000)

	w, resp := env.request(t, "POST", "/orders", defaultOrderBody(token), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]interface{})
	guestKey := data["guest_key"].(string)
	orderID := int(data["order"].(map[string]interface{})["id"].(float64))

	// Lewatkan undo window lewat DB, lalu minta sweep on demand.
	past := time.Now().Add(-1 * time.Second)
	require.NoError(t, env.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Update("pending_until", past).Error)

	w, resp = env.request(t, "POST", "/internal/sweep", nil,
		map[string]string{"X-Sweep-Secret": testSweepSecret})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sweep completed", resp["message"])

	result := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), result["finalized"])
	assert.Equal(t, float64(0), result["failed"])

	// Order sudah committed
	w, resp = env.request(t, "GET", fmt.Sprintf("/orders/%d", orderID), nil,
		map[string]string{"X-Guest-Key": guestKey})
	require.Equal(t, http.StatusOK, w.Code)
	order := resp["data"].(map[string]interface{})
	assert.Equal(t, "placed", order["status"])
	assert.NotNil(t, order["estimated_ready_at"])
}
