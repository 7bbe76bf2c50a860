package model

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry 本地键值存储表 — 对应 kv_entries
// 单用户本地工具：每个键只保留最后一次写入（last-write-wins）
type KVEntry struct {
	Key       string         `gorm:"type:varchar(100);primaryKey"      json:"key"`
	Value     datatypes.JSON `gorm:"not null"                          json:"value"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"           json:"updated_at"`
}

// TableName 指定表名
func (KVEntry) TableName() string { return "kv_entries" }
