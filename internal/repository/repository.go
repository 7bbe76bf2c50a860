package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db              *gorm.DB
	KV              KVRepository
	Course          CourseRepository
	RequirementRule RequirementRuleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		KV:              NewKVRepo(db),
		Course:          NewCourseRepo(db),
		RequirementRule: NewRequirementRuleRepo(db),
	}
}

// Transaction 在同一事务内执行 fn；fn 返回错误时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
