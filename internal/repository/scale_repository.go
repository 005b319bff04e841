package repository

import (
	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// ScaleRepository 返利阶梯数据访问接口
type ScaleRepository interface {
	ListByContract(contractID uint) ([]models.ScaleBracket, error)
	CountByContract(contractID uint) (int64, error)
	ReplaceForContract(contractID uint, brackets []models.ScaleBracket) error
	WithTx(tx *gorm.DB) *GormScaleRepository
}

// GormScaleRepository GORM 实现
type GormScaleRepository struct {
	db *gorm.DB
}

// NewScaleRepository 创建返利阶梯仓库
func NewScaleRepository(db *gorm.DB) *GormScaleRepository {
	return &GormScaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormScaleRepository) WithTx(tx *gorm.DB) *GormScaleRepository {
	if tx == nil {
		return r
	}
	return &GormScaleRepository{db: tx}
}

// ListByContract 获取合同的阶梯配置，按起始值升序
func (r *GormScaleRepository) ListByContract(contractID uint) ([]models.ScaleBracket, error) {
	brackets := make([]models.ScaleBracket, 0)
	err := r.db.Where("contract_id = ?", contractID).
		Order("from_value ASC").
		Find(&brackets).Error
	if err != nil {
		return nil, err
	}
	return brackets, nil
}

// CountByContract 统计合同的阶梯数量
func (r *GormScaleRepository) CountByContract(contractID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ScaleBracket{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceForContract 整体替换合同的阶梯配置
func (r *GormScaleRepository) ReplaceForContract(contractID uint, brackets []models.ScaleBracket) error {
	if err := r.db.Where("contract_id = ?", contractID).Delete(&models.ScaleBracket{}).Error; err != nil {
		return err
	}
	for i := range brackets {
		brackets[i].ID = 0
		brackets[i].ContractID = contractID
	}
	if len(brackets) == 0 {
		return nil
	}
	return r.db.Create(&brackets).Error
}
