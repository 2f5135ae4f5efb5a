package model

import (
	"time"

	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FavoriteItem is a product the shopper saved to their wishlist.
type FavoriteItem struct {
	ID            uint                `gorm:"primaryKey" json:"-"`                                                  // 찜 항목 ID
	SessionID     string              `gorm:"size:36;not null;uniqueIndex:idx_favorites_session_product" json:"-"`  // 세션 ID
	ProductID     string              `gorm:"size:64;not null;uniqueIndex:idx_favorites_session_product" json:"id"` // 상품 ID
	Name          string              `gorm:"size:255;not null" json:"name"`                                        // 상품명
	Price         decimal.Decimal     `gorm:"type:numeric;not null" json:"price"`                                   // 가격
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric" json:"original_price"`                                   // 정가
	Variant       string              `gorm:"size:64" json:"size,omitempty"`                                        // 용량/사이즈
	ImageRef      string              `gorm:"type:text" json:"image,omitempty"`                                     // 이미지
	ColorOptions  pq.StringArray      `gorm:"type:text[]" json:"colors,omitempty"`                                  // 색상 옵션
	CreatedAt     time.Time           `json:"created_at"`                                                           // 생성 시각
}

func (FavoriteItem) TableName() string {
	return "favorite_items"
}

func NewFavoriteItem(sessionID string, item checkout.LineItem) *FavoriteItem {
	fav := &FavoriteItem{
		SessionID:    sessionID,
		ProductID:    item.ID,
		Name:         item.Name,
		Price:        item.UnitPrice,
		Variant:      item.Variant,
		ImageRef:     item.ImageRef,
		ColorOptions: pq.StringArray(item.ColorOptions),
	}
	if item.OriginalPrice != nil {
		fav.OriginalPrice = decimal.NewNullDecimal(*item.OriginalPrice)
	}
	return fav
}

// ToLineItem returns the favorite as a cart candidate.
func (f FavoriteItem) ToLineItem() checkout.LineItem {
	item := checkout.LineItem{
		ID:        f.ProductID,
		Name:      f.Name,
		UnitPrice: f.Price,
		Variant:   f.Variant,
		ImageRef:  f.ImageRef,
	}
	if len(f.ColorOptions) > 0 {
		item.ColorOptions = []string(f.ColorOptions)
	}
	if f.OriginalPrice.Valid {
		op := f.OriginalPrice.Decimal
		item.OriginalPrice = &op
	}
	return item
}
