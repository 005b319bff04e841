package repository

import (
	"errors"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// ContractRepository 返利合同数据访问接口
type ContractRepository interface {
	Create(contract *models.RebateContract) error
	Update(contract *models.RebateContract) error
	GetByID(id uint) (*models.RebateContract, error)
	GetByContractNo(contractNo string) (*models.RebateContract, error)
	List(filter ContractListFilter) ([]models.RebateContract, int64, error)
	ListForProcessing(filter ContractScopeFilter) ([]models.RebateContract, error)
	UpdateLastProcessed(id uint, processed time.Time) error
	WithTx(tx *gorm.DB) *GormContractRepository
}

// GormContractRepository GORM 实现
type GormContractRepository struct {
	db *gorm.DB
}

// NewContractRepository 创建返利合同仓库
func NewContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// WithTx 绑定事务
func (r *GormContractRepository) WithTx(tx *gorm.DB) *GormContractRepository {
	if tx == nil {
		return r
	}
	return &GormContractRepository{db: tx}
}

func (r *GormContractRepository) withAssociations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Suppliers").
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("from_value ASC")
		}).
		Preload("SourceRules.Items")
}

// Create 创建合同及其关联数据
func (r *GormContractRepository) Create(contract *models.RebateContract) error {
	return r.db.Create(contract).Error
}

// Update 更新合同
func (r *GormContractRepository) Update(contract *models.RebateContract) error {
	return r.db.Save(contract).Error
}

// GetByID 根据 ID 获取合同（含供应商、阶梯、来源规则）
func (r *GormContractRepository) GetByID(id uint) (*models.RebateContract, error) {
	var contract models.RebateContract
	if err := r.withAssociations(r.db).First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// GetByContractNo 根据合同号获取合同
func (r *GormContractRepository) GetByContractNo(contractNo string) (*models.RebateContract, error) {
	var contract models.RebateContract
	err := r.withAssociations(r.db).Where("contract_no = ?", contractNo).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// List 分页查询合同列表
func (r *GormContractRepository) List(filter ContractListFilter) ([]models.RebateContract, int64, error) {
	query := r.db.Model(&models.RebateContract{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierCode != "" {
		query = query.Where("supplier_code = ?", filter.SupplierCode)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("contract_no "+likeOperator(r.db)+" ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contracts := make([]models.RebateContract, 0)
	err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

// ListForProcessing 挑选处理日在有效期内的活动合同，按合同号排序保证批次顺序稳定。
func (r *GormContractRepository) ListForProcessing(filter ContractScopeFilter) ([]models.RebateContract, error) {
	query := r.withAssociations(r.db).
		Where("status = ?", constants.ContractStatusActive).
		Where("start_date <= ? AND end_date >= ?", filter.ProcessDate, filter.ProcessDate)
	if len(filter.Suppliers) > 0 {
		query = query.Where("supplier_code IN ?", filter.Suppliers)
	}

	contracts := make([]models.RebateContract, 0)
	if err := query.Order("contract_no ASC").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// UpdateLastProcessed 推进合同处理游标
func (r *GormContractRepository) UpdateLastProcessed(id uint, processed time.Time) error {
	return r.db.Model(&models.RebateContract{}).
		Where("id = ?", id).
		Update("last_processed", processed).Error
}
