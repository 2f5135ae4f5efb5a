package controller

import (
	"time"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/shopspring/decimal"
)

// Prices go over the wire as plain numbers rounded to 2 places.
func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalAmount(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := amount(*d)
	return &v
}

// ItemRequest is a product candidate sent by the storefront.
type ItemRequest struct {
	ID            string           `json:"id" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Size          string           `json:"size"`
	Image         string           `json:"image"`
	Colors        []string         `json:"colors"`
}

func (r ItemRequest) toLineItem() checkout.LineItem {
	return checkout.LineItem{
		ID:            r.ID,
		Name:          r.Name,
		UnitPrice:     r.Price,
		OriginalPrice: r.OriginalPrice,
		Variant:       r.Size,
		ImageRef:      r.Image,
		ColorOptions:  r.Colors,
	}
}

type LineItemResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Quantity      int      `json:"quantity"`
	Size          string   `json:"size,omitempty"`
	Image         string   `json:"image,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	LineTotal     float64  `json:"line_total"`
}

func newLineItemResponse(item checkout.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Price:         amount(item.UnitPrice),
		OriginalPrice: optionalAmount(item.OriginalPrice),
		Quantity:      item.Quantity,
		Size:          item.Variant,
		Image:         item.ImageRef,
		Colors:        item.ColorOptions,
		LineTotal:     amount(item.LineTotal()),
	}
}

func newLineItemResponses(items []checkout.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newLineItemResponse(item))
	}
	return out
}

type TotalsResponse struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

func newTotalsResponse(t checkout.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:    amount(t.Subtotal),
		ShippingFee: amount(t.ShippingFee),
		Tax:         amount(t.Tax),
		Discount:    amount(t.Discount),
		Total:       amount(t.Total),
	}
}

type CartResponse struct {
	SessionID      string             `json:"session_id"`
	Items          []LineItemResponse `json:"items"`
	Count          int                `json:"count"`
	Totals         TotalsResponse     `json:"totals"`
	AppliedCoupon  string             `json:"applied_coupon,omitempty"`
	SavedItems     []LineItemResponse `json:"saved_items"`
	SelectedItems  []string           `json:"selected_items"`
	RecentlyViewed []LineItemResponse `json:"recently_viewed"`
}

func newCartResponse(view *service.CartView) CartResponse {
	selected := view.SelectedItems
	if selected == nil {
		selected = []string{}
	}
	return CartResponse{
		SessionID:      view.SessionID,
		Items:          newLineItemResponses(view.Items),
		Count:          len(view.Items),
		Totals:         newTotalsResponse(view.Totals),
		AppliedCoupon:  view.AppliedCoupon,
		SavedItems:     newLineItemResponses(view.SavedItems),
		SelectedItems:  selected,
		RecentlyViewed: newLineItemResponses(view.RecentlyViewed),
	}
}

type CouponResponse struct {
	Code        string  `json:"code"`
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	Savings     float64 `json:"savings"`
	Applied     bool    `json:"applied"`
}

func newCouponResponse(p service.CouponPreview) CouponResponse {
	return CouponResponse{
		Code:        p.Code,
		Kind:        string(p.Kind),
		Value:       amount(p.Value),
		Description: p.Description,
		Savings:     amount(p.Savings),
		Applied:     p.Applied,
	}
}

type OrderResponse struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []LineItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	CouponCode string             `json:"coupon_code,omitempty"`
	Discount   float64            `json:"discount"`
	Total      float64            `json:"total"`
}

func newOrderResponse(o checkout.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		CreatedAt:  o.CreatedAt,
		Items:      newLineItemResponses(o.Items),
		ItemCount:  o.ItemCount(),
		CouponCode: o.CouponCode,
		Discount:   amount(o.Discount),
		Total:      amount(o.Total),
	}
}

type FavoriteResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Size          string    `json:"size,omitempty"`
	Image         string    `json:"image,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

func newFavoriteResponses(items []model.FavoriteItem) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(items))
	for _, f := range items {
		item := f.ToLineItem()
		out = append(out, FavoriteResponse{
			ID:            item.ID,
			Name:          item.Name,
			Price:         amount(item.UnitPrice),
			OriginalPrice: optionalAmount(item.OriginalPrice),
			Size:          item.Variant,
			Image:         item.ImageRef,
			Colors:        item.ColorOptions,
			AddedAt:       f.CreatedAt,
		})
	}
	return out
}
