package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string // 주문 상태 코드

const (
	OrderStatusPending   OrderStatus = "pending"   // 주문 접수
	OrderStatusConfirmed OrderStatus = "confirmed" // 주문 확정 (재단 시작)
	OrderStatusFitting   OrderStatus = "fitting"   // 가봉 단계
	OrderStatusCompleted OrderStatus = "completed" // 제작 완료
	OrderStatusCancelled OrderStatus = "cancelled" // 주문 취소
)

// Order 맞춤 정장 주문. 주문 시점의 선택 상태와 치수, 미리보기/사진
// 참조를 스냅샷으로 보관함.
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                             // 주문 ID
	UserID            uint           `gorm:"not null;index" json:"user_id"`                    // 주문자 ID
	SessionID         string         `gorm:"type:varchar(64);index" json:"session_id"`         // 원본 컨피규레이터 세션
	Status            OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"` // 주문 상태
	Selections        string         `gorm:"type:text;not null" json:"-"`                      // 선택 상태 스냅샷 (JSON)
	Measurements      string         `gorm:"type:text" json:"-"`                               // 치수 스냅샷 (JSON, 없을 수 있음)
	PreviewURL        string         `gorm:"type:text" json:"preview_url"`                     // 최종 미리보기 이미지
	OriginalUpload    string         `gorm:"type:text" json:"original_upload"`                 // 정규화된 원본 사진
	BackgroundPreview string         `gorm:"type:text" json:"background_preview"`              // 배경 제거 사진
	CreatedAt         time.Time      `json:"created_at"`                                       // 생성 시각
	UpdatedAt         time.Time      `json:"updated_at"`                                       // 수정 시각
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                   // 삭제 시각(소프트 삭제)

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 주문자 정보
}

func (Order) TableName() string {
	return "orders"
}
