package repository

import (
	"context"

	"gorm.io/gorm"

	"uni-guide/backend/internal/model"
)

// RequirementRuleRepository 毕业要求数据访问接口
type RequirementRuleRepository interface {
	List(ctx context.Context) ([]model.RequirementRuleRecord, error)
	GetByYearAndMajor(ctx context.Context, enrollmentYear int, major string) (*model.RequirementRuleRecord, error)
	Create(ctx context.Context, rule *model.RequirementRuleRecord) error
}

type requirementRuleRepo struct {
	db *gorm.DB
}

// NewRequirementRuleRepo 创建 RequirementRuleRepository 实例
func NewRequirementRuleRepo(db *gorm.DB) RequirementRuleRepository {
	return &requirementRuleRepo{db: db}
}

// preloadAreas 区块按录入顺序加载
func preloadAreas(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *requirementRuleRepo) List(ctx context.Context) ([]model.RequirementRuleRecord, error) {
	var rules []model.RequirementRuleRecord
	err := r.db.WithContext(ctx).
		Preload("Areas", preloadAreas).
		Order("enrollment_year ASC, major ASC").
		Find(&rules).Error
	return rules, err
}

func (r *requirementRuleRepo) GetByYearAndMajor(ctx context.Context, enrollmentYear int, major string) (*model.RequirementRuleRecord, error) {
	var rule model.RequirementRuleRecord
	err := r.db.WithContext(ctx).
		Preload("Areas", preloadAreas).
		Where("enrollment_year = ? AND major = ?", enrollmentYear, major).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create 写入规则及其区块（GORM 关联自动创建 Areas）
func (r *requirementRuleRepo) Create(ctx context.Context, rule *model.RequirementRuleRecord) error {
	return r.db.WithContext(ctx).Create(rule).Error
}
