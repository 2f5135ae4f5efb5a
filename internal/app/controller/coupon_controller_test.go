package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponController_ApplyPercentage(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()
	api.do(http.MethodPost, "/api/v1/cart/items", token, product("palette", 1000))

	w := api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "SAVE10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cart := decode[CartResponse](t, w)
	assert.Equal(t, "SAVE10", cart.AppliedCoupon)
	assert.Equal(t, 100.0, cart.Totals.Discount)
	assert.Equal(t, 1080.0, cart.Totals.Total)
}

func TestCouponController_FreeShipping(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()
	api.do(http.MethodPost, "/api/v1/cart/items", token, product("balm", 300))

	w := api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "FREESHIP"})
	require.Equal(t, http.StatusOK, w.Code)

	cart := decode[CartResponse](t, w)
	assert.Equal(t, 0.0, cart.Totals.ShippingFee)
	assert.Equal(t, 354.0, cart.Totals.Total)
}

func TestCouponController_UnknownCode(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()
	api.do(http.MethodPost, "/api/v1/cart/items", token, product("balm", 300))
	api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "SAVE20"})

	w := api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "save10"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "COUPON_NOT_FOUND")

	// The previous coupon survives a failed apply.
	w = api.do(http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, "SAVE20", decode[CartResponse](t, w).AppliedCoupon)

	w = api.do(http.MethodPost, "/api/v1/cart/coupon", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCouponController_RemoveCoupon(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()
	api.do(http.MethodPost, "/api/v1/cart/items", token, product("balm", 300))
	api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "OFF250"})

	w := api.do(http.MethodDelete, "/api/v1/cart/coupon", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cart := decode[CartResponse](t, w)
	assert.Empty(t, cart.AppliedCoupon)
	assert.Equal(t, 0.0, cart.Totals.Discount)
	assert.Equal(t, 454.0, cart.Totals.Total)
}

func TestCouponController_ListAndSavings(t *testing.T) {
	api := setupControllerTest(t)
	token := api.newSession()
	api.do(http.MethodPost, "/api/v1/cart/items", token, product("kit", 2000))
	api.do(http.MethodPost, "/api/v1/cart/coupon", token, ApplyCouponRequest{Code: "SAVE20"})

	w := api.do(http.MethodGet, "/api/v1/coupons", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Coupons []CouponResponse `json:"coupons"`
		Count   int              `json:"count"`
	}](t, w)
	require.Equal(t, 4, resp.Count)

	byCode := map[string]CouponResponse{}
	for _, c := range resp.Coupons {
		byCode[c.Code] = c
	}
	assert.Equal(t, 200.0, byCode["SAVE10"].Savings)
	assert.Equal(t, 400.0, byCode["SAVE20"].Savings)
	assert.True(t, byCode["SAVE20"].Applied)
	assert.Equal(t, 100.0, byCode["FREESHIP"].Savings)
	assert.Equal(t, 250.0, byCode["OFF250"].Savings)

	w = api.do(http.MethodGet, "/api/v1/coupons/SAVE10/savings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"SAVE10","savings":200}`, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/coupons/NOPE/savings", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
