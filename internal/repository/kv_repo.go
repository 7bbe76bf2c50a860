package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uni-guide/backend/internal/model"
)

// KVRepository 规划状态键值存储接口
// 值以 JSON 保存；同一键重复写入时覆盖（last-write-wins）
type KVRepository interface {
	Save(ctx context.Context, key string, value interface{}) error
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type kvRepo struct {
	db *gorm.DB
}

// NewKVRepo 创建基于数据库表 kv_entries 的 KVRepository
func NewKVRepo(db *gorm.DB) KVRepository {
	return &kvRepo{db: db}
}

func (r *kvRepo) Save(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	entry := model.KVEntry{Key: key, Value: datatypes.JSON(b)}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (r *kvRepo) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return true, fmt.Errorf("解析 %s 失败: %w", key, err)
	}
	return true, nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.KVEntry{}).Error
}

func (r *kvRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&model.KVEntry{}).
		Order("key ASC").
		Pluck("key", &keys).Error
	return keys, err
}
