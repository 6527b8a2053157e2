package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

type StaffOrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewStaffOrderController(db *gorm.DB, orders *services.OrderService) *StaffOrderController {
	return &StaffOrderController{DB: db, Orders: orders}
}

// ListOrders -> listing sisi staff. Order pending tidak ikut secara default.
// Filter: statuses (comma set), delivery_only, from/to (RFC3339 atau
// 2006-01-02), page/per_page.
func (sc *StaffOrderController) ListOrders(c *gin.Context) {
	filter := services.StaffOrderFilter{}

	if raw := c.Query("statuses"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, s)
			}
		}
	}

	filter.DeliveryOnly = c.Query("delivery_only") == "true"

	if raw := c.Query("from"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDateParam(raw)
		if err != nil {
			utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
		filter.To = &t
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	orders, total, err := sc.Orders.ListStaffOrders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Staff orders", gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
	})
}

// SetOrderStatus -> transisi dapur. Target harus salah satu dari
// received/preparing/ready/completed/cancelled dan order harus committed.
func (sc *StaffOrderController) SetOrderStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	order, err := sc.Orders.SetStaffStatus(orderID, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// FinalizeOrder -> staff commit order pending tanpa menunggu sweeper.
func (sc *StaffOrderController) FinalizeOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := sc.Orders.FinalizeOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order placed", order)
}

// UpdateKitchenNotes -> anotasi dapur pada item; satu-satunya mutasi item
// yang boleh setelah order committed.
func (sc *StaffOrderController) UpdateKitchenNotes(c *gin.Context) {
	itemIDStr := c.Param("item_id")
	itemID, err := strconv.ParseUint(itemIDStr, 10, 32)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", errors.New("invalid item id"))
		return
	}

	var body struct {
		KitchenNotes string `json:"kitchen_notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	item, err := sc.Orders.UpdateKitchenNotes(uint(itemID), body.KitchenNotes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Kitchen notes updated", item)
}

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date, use RFC3339 or YYYY-MM-DD")
}
