package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/internal/db"
	"github.com/ikkim/beautycart-backend/internal/middleware"
	"github.com/stretchr/testify/require"
)

const testTokenSecret = "test-session-secret-for-controllers"

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	cart   service.CartService
}

// setupControllerTest wires every controller against an in-memory database
// with the same routes the server exposes.
func setupControllerTest(t *testing.T) *testAPI {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	sessionRepo := repository.NewSessionRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)

	store := service.NewSessionStore(sessionRepo, orderRepo, checkout.DefaultPricing()).
		WithTransactor(repository.NewTransactor(testDB))
	cartService := service.NewCartService(store, favoriteRepo, nil)
	orderService := service.NewOrderService(store, orderRepo, nil, nil)
	exportService := service.NewExportService(orderService, nil, time.Minute, nil)

	sessionCtrl := NewSessionController(cartService, testTokenSecret, time.Hour)
	cartCtrl := NewCartController(cartService)
	couponCtrl := NewCouponController(cartService)
	orderCtrl := NewOrderController(orderService, exportService)
	addressCtrl := NewAddressController(service.NewAddressService(addressRepo))
	favoriteCtrl := NewFavoriteController(service.NewFavoriteService(favoriteRepo))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	v1 := router.Group("/api/v1")
	v1.POST("/sessions", sessionCtrl.CreateSession)

	authed := v1.Group("")
	authed.Use(middleware.NewSessionMiddleware(testTokenSecret).RequireSession())
	authed.DELETE("/sessions/current", sessionCtrl.EndSession)
	authed.GET("/cart", cartCtrl.GetCart)
	authed.DELETE("/cart", cartCtrl.ClearCart)
	authed.POST("/cart/items", cartCtrl.AddItem)
	authed.PUT("/cart/items/:id", cartCtrl.UpdateQuantity)
	authed.DELETE("/cart/items/:id", cartCtrl.RemoveItem)
	authed.POST("/cart/items/:id/save-for-later", cartCtrl.SaveForLater)
	authed.POST("/cart/items/:id/move-to-wishlist", cartCtrl.MoveToWishlist)
	authed.PUT("/cart/selection", cartCtrl.SetSelection)
	authed.DELETE("/cart/selection", cartCtrl.RemoveSelected)
	authed.POST("/cart/coupon", couponCtrl.ApplyCoupon)
	authed.DELETE("/cart/coupon", couponCtrl.RemoveCoupon)
	authed.POST("/recently-viewed", cartCtrl.ViewProduct)
	authed.GET("/coupons", couponCtrl.ListCoupons)
	authed.GET("/coupons/:code/savings", couponCtrl.CalculateSavings)
	authed.GET("/orders", orderCtrl.ListOrders)
	authed.POST("/orders", orderCtrl.PlaceOrder)
	authed.GET("/orders/export", orderCtrl.ExportOrders)
	authed.POST("/orders/export/archive", orderCtrl.ArchiveOrders)
	authed.GET("/orders/:id", orderCtrl.GetOrder)
	authed.GET("/addresses", addressCtrl.ListAddresses)
	authed.POST("/addresses", addressCtrl.CreateAddress)
	authed.PUT("/addresses/:id", addressCtrl.UpdateAddress)
	authed.DELETE("/addresses/:id", addressCtrl.DeleteAddress)
	authed.GET("/favorites", favoriteCtrl.ListFavorites)
	authed.POST("/favorites", favoriteCtrl.AddFavorite)
	authed.DELETE("/favorites/:product_id", favoriteCtrl.RemoveFavorite)

	return &testAPI{t: t, router: router, cart: cartService}
}

// newSession creates a session over HTTP and returns its token.
func (api *testAPI) newSession() string {
	api.t.Helper()
	w := api.do(http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(api.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	require.NoError(api.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(api.t, resp.SessionID)
	require.NotEmpty(api.t, resp.Token)
	return resp.Token
}

func (api *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	api.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(api.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.SessionTokenHeader, token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func product(id string, price float64) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"name":  "Product " + id,
		"price": price,
	}
}
