package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/model"
	"github.com/yockii/docdraft/pkg/database"
	"github.com/yockii/docdraft/pkg/logger"
)

// BaseServiceConfig 由具体服务提供的模型相关回调
type BaseServiceConfig[T model.Model] struct {
	NewModel       func() T
	BuildCondition func(query *gorm.DB, condition T) *gorm.DB
	ListOrder      string
}

type BaseServiceImpl[T model.Model] struct {
	db  *gorm.DB
	cfg BaseServiceConfig[T]
}

func NewBaseService[T model.Model](cfg BaseServiceConfig[T]) *BaseServiceImpl[T] {
	if cfg.BuildCondition == nil {
		cfg.BuildCondition = func(query *gorm.DB, _ T) *gorm.DB { return query }
	}
	if cfg.ListOrder == "" {
		cfg.ListOrder = "created_at DESC"
	}
	return &BaseServiceImpl[T]{
		db:  database.GetDB(),
		cfg: cfg,
	}
}

// Create 创建记录
func (s *BaseServiceImpl[T]) Create(ctx context.Context, record T) error {
	if s.db == nil {
		return constant.ErrDatabaseError
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		logger.Error("创建记录失败", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

// Get 查询记录
func (s *BaseServiceImpl[T]) Get(ctx context.Context, id uint64) (T, error) {
	record := s.cfg.NewModel()
	if s.db == nil {
		return record, constant.ErrDatabaseError
	}
	if err := s.db.WithContext(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		logger.Error("查询记录失败", logger.F("error", err))
		return record, constant.ErrDatabaseError
	}
	return record, nil
}

// List 查询记录列表
func (s *BaseServiceImpl[T]) List(ctx context.Context, condition T, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64
	if s.db == nil {
		return records, 0, constant.ErrDatabaseError
	}

	query := s.db.WithContext(ctx).Model(s.cfg.NewModel())
	query = s.cfg.BuildCondition(query, condition)

	if err := query.Count(&total).Error; err != nil {
		logger.Error("查询记录总数失败", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}

	if err := query.Offset(offset).Limit(limit).Order(s.cfg.ListOrder).Find(&records).Error; err != nil {
		logger.Error("查询记录失败", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}

	return records, total, nil
}
