package model

import (
	"time"
)

// ConfiguratorSnapshot 세션별 내구 스냅샷 (내구 채널)
// Payload는 configurator.Snapshot의 JSON 직렬화 결과.
// 휘발성 미러 채널(Redis)과 의도적으로 분리되어 있음.
type ConfiguratorSnapshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 스냅샷 ID
	SessionID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"` // 세션 ID
	Payload   string    `gorm:"type:text;not null" json:"-"`                             // 스냅샷 본문 (JSON)
	CreatedAt time.Time `json:"created_at"`                                              // 생성 시각
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // 수정 시각 (정리 기준)
}

func (ConfiguratorSnapshot) TableName() string {
	return "configurator_snapshots"
}

// Measurement 세션별 치수 입력 폼. 스냅샷과 별도로 저장/복원됨.
type Measurement struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // 치수 ID
	SessionID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"` // 세션 ID
	Fields    string    `gorm:"type:text;not null" json:"-"`                             // 항목별 값 (JSON)
	CreatedAt time.Time `json:"created_at"`                                              // 생성 시각
	UpdatedAt time.Time `json:"updated_at"`                                              // 수정 시각
}

func (Measurement) TableName() string {
	return "measurements"
}
