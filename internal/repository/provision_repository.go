package repository

import (
	"errors"

	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// ProvisionRepository 预提方法数据访问接口
type ProvisionRepository interface {
	GetByCode(code string) (*models.ProvisionMethod, error)
	List() ([]models.ProvisionMethod, error)
	Create(method *models.ProvisionMethod) error
	Update(method *models.ProvisionMethod) error
	WithTx(tx *gorm.DB) *GormProvisionRepository
}

// GormProvisionRepository GORM 实现
type GormProvisionRepository struct {
	db *gorm.DB
}

// NewProvisionRepository 创建预提方法仓库
func NewProvisionRepository(db *gorm.DB) *GormProvisionRepository {
	return &GormProvisionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProvisionRepository) WithTx(tx *gorm.DB) *GormProvisionRepository {
	if tx == nil {
		return r
	}
	return &GormProvisionRepository{db: tx}
}

// GetByCode 根据代码获取预提方法（含各月系数）
func (r *GormProvisionRepository) GetByCode(code string) (*models.ProvisionMethod, error) {
	var method models.ProvisionMethod
	err := r.db.Preload("Factors", func(db *gorm.DB) *gorm.DB {
		return db.Order("month ASC")
	}).Where("code = ?", code).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// List 获取全部预提方法
func (r *GormProvisionRepository) List() ([]models.ProvisionMethod, error) {
	methods := make([]models.ProvisionMethod, 0)
	err := r.db.Preload("Factors").Order("code ASC").Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

// Create 创建预提方法
func (r *GormProvisionRepository) Create(method *models.ProvisionMethod) error {
	return r.db.Create(method).Error
}

// Update 更新预提方法
func (r *GormProvisionRepository) Update(method *models.ProvisionMethod) error {
	return r.db.Save(method).Error
}
