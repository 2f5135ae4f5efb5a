package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/config"
	"github.com/ikkim/beautycart-backend/internal/app/controller"
	"github.com/ikkim/beautycart-backend/internal/middleware"
)

type Router struct {
	sessionController  *controller.SessionController
	cartController     *controller.CartController
	couponController   *controller.CouponController
	orderController    *controller.OrderController
	addressController  *controller.AddressController
	favoriteController *controller.FavoriteController
	wsController       *controller.WSController
	sessionMiddleware  *middleware.SessionMiddleware
	config             *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	cartController *controller.CartController,
	couponController *controller.CouponController,
	orderController *controller.OrderController,
	addressController *controller.AddressController,
	favoriteController *controller.FavoriteController,
	wsController *controller.WSController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:  sessionController,
		cartController:     cartController,
		couponController:   couponController,
		orderController:    orderController,
		addressController:  addressController,
		favoriteController: favoriteController,
		wsController:       wsController,
		sessionMiddleware:  sessionMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Beautycart API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", r.sessionController.CreateSession)

		authed := v1.Group("")
		authed.Use(r.sessionMiddleware.RequireSession())
		{
			authed.DELETE("/sessions/current", r.sessionController.EndSession)

			cart := authed.Group("/cart")
			{
				cart.GET("", r.cartController.GetCart)
				cart.DELETE("", r.cartController.ClearCart)
				cart.POST("/items", r.cartController.AddItem)
				cart.PUT("/items/:id", r.cartController.UpdateQuantity)
				cart.DELETE("/items/:id", r.cartController.RemoveItem)
				cart.POST("/items/:id/save-for-later", r.cartController.SaveForLater)
				cart.POST("/items/:id/move-to-wishlist", r.cartController.MoveToWishlist)
				cart.PUT("/selection", r.cartController.SetSelection)
				cart.DELETE("/selection", r.cartController.RemoveSelected)
				cart.POST("/coupon", r.couponController.ApplyCoupon)
				cart.DELETE("/coupon", r.couponController.RemoveCoupon)
			}

			authed.POST("/recently-viewed", r.cartController.ViewProduct)

			coupons := authed.Group("/coupons")
			{
				coupons.GET("", r.couponController.ListCoupons)
				coupons.GET("/:code/savings", r.couponController.CalculateSavings)
			}

			orders := authed.Group("/orders")
			{
				orders.GET("", r.orderController.ListOrders)
				orders.POST("", r.orderController.PlaceOrder)
				orders.GET("/export", r.orderController.ExportOrders)
				orders.POST("/export/archive", r.orderController.ArchiveOrders)
				orders.GET("/:id", r.orderController.GetOrder)
			}

			addresses := authed.Group("/addresses")
			{
				addresses.GET("", r.addressController.ListAddresses)
				addresses.POST("", r.addressController.CreateAddress)
				addresses.PUT("/:id", r.addressController.UpdateAddress)
				addresses.DELETE("/:id", r.addressController.DeleteAddress)
			}

			favorites := authed.Group("/favorites")
			{
				favorites.GET("", r.favoriteController.ListFavorites)
				favorites.POST("", r.favoriteController.AddFavorite)
				favorites.DELETE("/:product_id", r.favoriteController.RemoveFavorite)
			}

			authed.GET("/ws", r.wsController.Connect)
		}
	}

	return router
}
