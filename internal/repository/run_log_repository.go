package repository

import (
	"errors"
	"time"

	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// RunLogRepository 批次运行日志数据访问接口
type RunLogRepository interface {
	Create(run *models.ProcessRun) error
	AddEntry(entry *models.ProcessRunEntry) error
	Finish(runPK uint, status string, total, success, failed int, finishedAt time.Time) error
	GetByRunID(runID string) (*models.ProcessRun, error)
	List(filter RunListFilter) ([]models.ProcessRun, int64, error)
	WithTx(tx *gorm.DB) *GormRunLogRepository
}

// GormRunLogRepository GORM 实现
type GormRunLogRepository struct {
	db *gorm.DB
}

// NewRunLogRepository 创建批次日志仓库
func NewRunLogRepository(db *gorm.DB) *GormRunLogRepository {
	return &GormRunLogRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRunLogRepository) WithTx(tx *gorm.DB) *GormRunLogRepository {
	if tx == nil {
		return r
	}
	return &GormRunLogRepository{db: tx}
}

// Create 创建批次运行记录
func (r *GormRunLogRepository) Create(run *models.ProcessRun) error {
	return r.db.Create(run).Error
}

// AddEntry 追加单个合同的处理结果
func (r *GormRunLogRepository) AddEntry(entry *models.ProcessRunEntry) error {
	return r.db.Create(entry).Error
}

// Finish 收尾批次运行记录
func (r *GormRunLogRepository) Finish(runPK uint, status string, total, success, failed int, finishedAt time.Time) error {
	return r.db.Model(&models.ProcessRun{}).
		Where("id = ?", runPK).
		Updates(map[string]interface{}{
			"status":        status,
			"total_count":   total,
			"success_count": success,
			"failed_count":  failed,
			"finished_at":   finishedAt,
		}).Error
}

// GetByRunID 根据批次 ID 获取运行记录（含合同级结果）
func (r *GormRunLogRepository) GetByRunID(runID string) (*models.ProcessRun, error) {
	var run models.ProcessRun
	err := r.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("run_id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// List 分页查询批次运行记录
func (r *GormRunLogRepository) List(filter RunListFilter) ([]models.ProcessRun, int64, error) {
	query := r.db.Model(&models.ProcessRun{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("process_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("process_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]models.ProcessRun, 0)
	err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}
