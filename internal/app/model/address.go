package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID        uint           `gorm:"primaryKey" json:"id"`              // 배송지 ID
	SessionID string         `gorm:"size:36;not null;index" json:"-"`   // 세션 ID
	Label     string         `gorm:"size:50" json:"label"`              // 배송지명 (Home, Work ...)
	Name      string         `gorm:"size:100;not null" json:"name"`     // 수령인
	Address   string         `gorm:"type:text;not null" json:"address"` // 주소
	Landmark  string         `gorm:"type:text" json:"landmark"`         // 랜드마크
	Phone     string         `gorm:"size:30" json:"phone"`              // 전화번호
	Pincode   string         `gorm:"size:10;not null" json:"pincode"`   // 우편번호
	CreatedAt time.Time      `json:"created_at"`                        // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`                        // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 삭제 시각(소프트 삭제)
}

func (Address) TableName() string {
	return "addresses"
}
