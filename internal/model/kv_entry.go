package model

import "time"

// KVEntry SQL 后端的键值行
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:191;comment:键"`
	Value     string    `gorm:"type:text;comment:JSON 值"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
