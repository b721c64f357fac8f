package model

import "time"

// KVSlot는 이름 있는 단일 저장 슬롯. 딜러 컬렉션 전체가 JSON 배열로 value에 들어간다.
type KVSlot struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVSlot) TableName() string {
	return "kv_slots"
}
