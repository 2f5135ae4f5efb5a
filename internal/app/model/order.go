package model

import (
	"time"

	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uint            `gorm:"primarykey" json:"id"`                                                       // 주문 ID
	SessionID   string          `gorm:"size:36;not null;uniqueIndex:idx_orders_session_number" json:"session_id"`   // 세션 ID
	OrderNumber string          `gorm:"size:16;not null;uniqueIndex:idx_orders_session_number" json:"order_number"` // 화면 표시용 주문 번호 (#123456)
	CouponCode  string          `gorm:"size:32" json:"coupon_code,omitempty"`                                       // 적용 쿠폰
	Discount    decimal.Decimal `gorm:"type:numeric;not null" json:"discount"`                                      // 할인 금액
	Total       decimal.Decimal `gorm:"type:numeric;not null" json:"total"`                                         // 주문 금액
	PlacedAt    time.Time       `gorm:"not null;index" json:"placed_at"`                                            // 주문 시각
	CreatedAt   time.Time       `json:"created_at"`                                                                 // 생성 시각

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // 주문 항목 목록
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID            uint                `gorm:"primarykey" json:"id"`                // 주문 항목 ID
	OrderID       uint                `gorm:"not null;index" json:"order_id"`      // 주문 ID
	Position      int                 `gorm:"not null" json:"position"`            // 장바구니 내 순서
	ProductID     string              `gorm:"size:64;not null" json:"product_id"`  // 상품 ID
	Name          string              `gorm:"size:255;not null" json:"name"`       // 상품명
	UnitPrice     decimal.Decimal     `gorm:"type:numeric;not null" json:"price"`  // 단가
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric" json:"original_price"`  // 정가
	Quantity      int                 `gorm:"not null" json:"quantity"`            // 수량
	Variant       string              `gorm:"size:64" json:"size,omitempty"`       // 용량/사이즈
	ImageRef      string              `gorm:"type:text" json:"image,omitempty"`    // 이미지
	ColorOptions  pq.StringArray      `gorm:"type:text[]" json:"colors,omitempty"` // 색상 옵션
}

func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderRecord maps a placed checkout order onto its database rows.
func NewOrderRecord(sessionID string, o checkout.Order) *Order {
	record := &Order{
		SessionID:   sessionID,
		OrderNumber: o.ID,
		CouponCode:  o.CouponCode,
		Discount:    o.Discount,
		Total:       o.Total,
		PlacedAt:    o.CreatedAt,
	}
	for idx, item := range o.Items {
		record.OrderItems = append(record.OrderItems, newOrderItem(idx, item))
	}
	return record
}

func newOrderItem(position int, item checkout.LineItem) OrderItem {
	row := OrderItem{
		Position:     position,
		ProductID:    item.ID,
		Name:         item.Name,
		UnitPrice:    item.UnitPrice,
		Quantity:     item.Quantity,
		Variant:      item.Variant,
		ImageRef:     item.ImageRef,
		ColorOptions: pq.StringArray(item.ColorOptions),
	}
	if item.OriginalPrice != nil {
		row.OriginalPrice = decimal.NewNullDecimal(*item.OriginalPrice)
	}
	return row
}

// ToCheckout converts the stored rows back into a checkout order.
// OrderItems must be loaded in position order.
func (o *Order) ToCheckout() checkout.Order {
	out := checkout.Order{
		ID:         o.OrderNumber,
		CreatedAt:  o.PlacedAt,
		CouponCode: o.CouponCode,
		Discount:   o.Discount,
		Total:      o.Total,
		Items:      make([]checkout.LineItem, 0, len(o.OrderItems)),
	}
	for _, row := range o.OrderItems {
		out.Items = append(out.Items, row.ToLineItem())
	}
	return out
}

func (i OrderItem) ToLineItem() checkout.LineItem {
	item := checkout.LineItem{
		ID:        i.ProductID,
		Name:      i.Name,
		UnitPrice: i.UnitPrice,
		Quantity:  i.Quantity,
		Variant:   i.Variant,
		ImageRef:  i.ImageRef,
	}
	if len(i.ColorOptions) > 0 {
		item.ColorOptions = []string(i.ColorOptions)
	}
	if i.OriginalPrice.Valid {
		op := i.OriginalPrice.Decimal
		item.OriginalPrice = &op
	}
	return item
}
