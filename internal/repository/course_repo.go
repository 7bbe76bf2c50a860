package repository

import (
	"context"

	"gorm.io/gorm"

	"uni-guide/backend/internal/model"
)

// CourseRepository 课程目录数据访问接口
type CourseRepository interface {
	List(ctx context.Context) ([]model.CourseRecord, error)
	GetByID(ctx context.Context, id string) (*model.CourseRecord, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, records []*model.CourseRecord) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.CourseRecord, error) {
	var records []model.CourseRecord
	err := r.db.WithContext(ctx).
		Order("course_id ASC").
		Find(&records).Error
	return records, err
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.CourseRecord, error) {
	var record model.CourseRecord
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CourseRecord{}).
		Count(&n).Error
	return n, err
}

// CreateBatch 批量写入课程，每批 100 条
func (r *courseRepo) CreateBatch(ctx context.Context, records []*model.CourseRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 100).Error
}
