package repository

import (
	"errors"

	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// SettlementRepository 结算记录数据访问接口
type SettlementRepository interface {
	Create(record *models.SettlementRecord) error
	CreateDocLinks(links []models.SettlementDocLink) error
	CreateVolumeAudits(audits []models.VolumeAudit) error
	GetByID(id uint) (*models.SettlementRecord, error)
	List(filter SettlementListFilter) ([]models.SettlementRecord, int64, error)
	WithTx(tx *gorm.DB) *GormSettlementRepository
}

// GormSettlementRepository GORM 实现
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 创建结算记录仓库
func NewSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSettlementRepository) WithTx(tx *gorm.DB) *GormSettlementRepository {
	if tx == nil {
		return r
	}
	return &GormSettlementRepository{db: tx}
}

// Create 创建结算记录及其明细、分摊
func (r *GormSettlementRepository) Create(record *models.SettlementRecord) error {
	return r.db.Create(record).Error
}

// CreateDocLinks 建立结算记录与单据行的关联
func (r *GormSettlementRepository) CreateDocLinks(links []models.SettlementDocLink) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

// CreateVolumeAudits 批量写入采购量留痕
func (r *GormSettlementRepository) CreateVolumeAudits(audits []models.VolumeAudit) error {
	if len(audits) == 0 {
		return nil
	}
	return r.db.Create(&audits).Error
}

// GetByID 根据 ID 获取结算记录（含明细与分摊）
func (r *GormSettlementRepository) GetByID(id uint) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := r.db.Preload("Details").Preload("Distributions").First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List 分页查询结算记录列表
func (r *GormSettlementRepository) List(filter SettlementListFilter) ([]models.SettlementRecord, int64, error) {
	query := r.db.Model(&models.SettlementRecord{})
	if filter.ContractID != 0 {
		query = query.Where("contract_id = ?", filter.ContractID)
	}
	if filter.Supplier != "" {
		query = query.Where("supplier_code = ?", filter.Supplier)
	}
	if filter.IsProvision != nil {
		query = query.Where("is_provision = ?", *filter.IsProvision)
	}
	if filter.PeriodFrom != nil {
		query = query.Where("period_end >= ?", *filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		query = query.Where("period_end <= ?", *filter.PeriodTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := make([]models.SettlementRecord, 0)
	err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
