package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/config"
	"github.com/yeremiapane/ordering-app/controllers"
	"github.com/yeremiapane/ordering-app/middlewares"
	"github.com/yeremiapane/ordering-app/services"
)

type Deps struct {
	Orders   *services.OrderService
	Sweeper  *services.FinalizationSweeper
	Counters *services.CounterService
	Tokens   *services.PaymentTokenService
}

func SetupRouter(db *gorm.DB, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db, deps.Orders)
	staffCtrl := controllers.NewStaffOrderController(db, deps.Orders)
	sweepCtrl := controllers.NewSweepController(deps.Sweeper, config.SweepSecret())
	tokenCtrl := controllers.NewPaymentTokenController(deps.Tokens)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Token pembayaran (collaborator boundary)
	r.POST("/payments/token", tokenCtrl.IssueToken)

	// -- CUSTOMER (guest boleh; JWT customer opsional) --
	customer := r.Group("/")
	customer.Use(middlewares.OptionalAuthMiddleware())
	{
		customer.POST("/orders",
			middlewares.OrderRateLimiter(deps.Counters, 20, 1*time.Minute),
			orderCtrl.CreateOrder)
		customer.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		customer.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
		customer.POST("/orders/:order_id/undo-cancel", orderCtrl.UndoCancelOrder)
		customer.POST("/orders/:order_id/finalize", orderCtrl.FinalizeOrder)
	}

	// Sweep internal: tanpa JWT, dilindungi shared secret.
	r.POST("/internal/sweep", sweepCtrl.RunSweep)

	// ----------------------------------------------------------------
	//                      STAFF/ADMIN ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	auth.Use(middlewares.RequireRoles("admin", "staff"))
	{
		auth.GET("/orders", staffCtrl.ListOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/status", staffCtrl.SetOrderStatus)
		auth.POST("/orders/:order_id/finalize", staffCtrl.FinalizeOrder)
		auth.PATCH("/order-items/:item_id/kitchen-notes", staffCtrl.UpdateKitchenNotes)
	}

	return r
}
