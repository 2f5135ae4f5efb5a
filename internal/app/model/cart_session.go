package model

import (
	"time"
)

// CartSession persists one anonymous shopper's cart state as JSON.
type CartSession struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`             // 세션 ID (UUID)
	State        string    `gorm:"type:text;not null;default:'{}'" json:"-"` // checkout.State JSON
	LastActiveAt time.Time `gorm:"not null;index" json:"last_active_at"`     // 마지막 활동 시각
	CreatedAt    time.Time `json:"created_at"`                               // 생성 시각
	UpdatedAt    time.Time `json:"updated_at"`                               // 수정 시각
}

func (CartSession) TableName() string {
	return "cart_sessions"
}
