package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

type orderItemReq struct {
	ProductID      uint   `json:"product_id" binding:"required"`
	ProductName    string `json:"product_name" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	UnitPrice      int64  `json:"unit_price"`
	Customizations string `json:"customizations"`
}

type createOrderReq struct {
	Items           []orderItemReq `json:"items"`
	FulfillmentType string         `json:"fulfillment_type"`
	// Alias lama dari berbagai versi client; diselesaikan di
	// normalizeFulfillmentType, jangan ditambah cabang di tempat lain.
	DeliveryOption  string `json:"delivery_option"`
	OrderType       string `json:"order_type"`
	PaymentMethod   string `json:"payment_method"`
	PaymentToken    string `json:"payment_token"`
	DeliveryAddress string `json:"delivery_address"`
	DeliveryNotes   string `json:"delivery_notes"`
}

// normalizeFulfillmentType satu-satunya tempat alias tipe fulfillment
// diterjemahkan ke nilai kanonik.
func normalizeFulfillmentType(req createOrderReq) string {
	raw := req.FulfillmentType
	if raw == "" {
		raw = req.DeliveryOption
	}
	if raw == "" {
		raw = req.OrderType
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dine_in", "dine-in", "dinein", "eat_in":
		return models.FulfillmentDineIn
	case "take_away", "takeaway", "take-away", "pickup", "pick_up":
		return models.FulfillmentTakeAway
	case "delivery", "delivery_order", "deliver":
		return models.FulfillmentDelivery
	default:
		return raw
	}
}

// CreateOrder -> buat order pending dengan undo window.
// Guest boleh order; guest_key dikembalikan sebagai bukti kepemilikan.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body createOrderReq
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", err)
		return
	}

	input := services.CreateOrderInput{
		CustomerID:      customerIDFromContext(c),
		FulfillmentType: normalizeFulfillmentType(body),
		PaymentMethod:   body.PaymentMethod,
		PaymentToken:    body.PaymentToken,
		DeliveryAddress: body.DeliveryAddress,
		DeliveryNotes:   body.DeliveryNotes,
	}
	for _, item := range body.Items {
		input.Items = append(input.Items, services.CreateOrderItemInput{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Customizations: item.Customizations,
		})
	}

	order, err := oc.Orders.CreateOrder(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{"order": order}
	if order.GuestKey != "" {
		resp["guest_key"] = order.GuestKey
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", resp)
}

// CancelOrder -> customer membatalkan order pending selama undo window.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := oc.Orders.CancelOrder(orderID, callerFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{
		"order":            result.Order,
		"refund_initiated": result.RefundInitiated,
	})
}

// UndoCancelOrder -> mengembalikan order cancelled ke pending dengan
// deadline undo yang baru.
func (oc *OrderController) UndoCancelOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.Orders.UndoCancelOrder(orderID, callerFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order restored", order)
}

// FinalizeOrder -> konfirmasi eksplisit, tidak menunggu sweeper.
func (oc *OrderController) FinalizeOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.Orders.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := oc.authorizeView(c, order); err != nil {
		respondServiceError(c, err)
		return
	}

	order, err = oc.Orders.FinalizeOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order placed", order)
}

// GetOrderByID -> detail 1 order (pemilik atau staff).
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.Orders.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := oc.authorizeView(c, order); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) authorizeView(c *gin.Context, order *models.Order) error {
	caller := callerFromContext(c)
	if caller.Staff {
		return nil
	}
	if order.CustomerID != nil {
		if caller.CustomerID != nil && *caller.CustomerID == *order.CustomerID {
			return nil
		}
		return &services.AuthorizationError{Message: "caller is not the order owner"}
	}
	if order.GuestKey != "" && caller.GuestKey == order.GuestKey {
		return nil
	}
	return &services.AuthorizationError{Message: "caller is not the order owner"}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("order_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "invalid_input", errors.New("invalid order id"))
		return 0, false
	}
	return uint(id), true
}

func customerIDFromContext(c *gin.Context) *uint {
	roleValue, _ := c.Get("role")
	if role, _ := roleValue.(string); role != "customer" {
		return nil
	}
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok && id != 0 {
			return &id
		}
	}
	return nil
}

func callerFromContext(c *gin.Context) services.Caller {
	caller := services.Caller{
		CustomerID: customerIDFromContext(c),
		GuestKey:   c.GetHeader("X-Guest-Key"),
	}
	if roleValue, exists := c.Get("role"); exists {
		if role, _ := roleValue.(string); role == "admin" || role == "staff" {
			caller.Staff = true
		}
	}
	return caller
}
