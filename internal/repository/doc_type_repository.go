package repository

import (
	"errors"

	"github.com/fanli-next/internal/models"

	"gorm.io/gorm"
)

// DocumentTypeRepository 单据类型数据访问接口
type DocumentTypeRepository interface {
	GetByCode(code string) (*models.DocumentType, error)
	List() ([]models.DocumentType, error)
	Create(docType *models.DocumentType) error
	WithTx(tx *gorm.DB) *GormDocumentTypeRepository
}

// GormDocumentTypeRepository GORM 实现
type GormDocumentTypeRepository struct {
	db *gorm.DB
}

// NewDocumentTypeRepository 创建单据类型仓库
func NewDocumentTypeRepository(db *gorm.DB) *GormDocumentTypeRepository {
	return &GormDocumentTypeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDocumentTypeRepository) WithTx(tx *gorm.DB) *GormDocumentTypeRepository {
	if tx == nil {
		return r
	}
	return &GormDocumentTypeRepository{db: tx}
}

// GetByCode 根据编码获取单据类型
func (r *GormDocumentTypeRepository) GetByCode(code string) (*models.DocumentType, error) {
	var docType models.DocumentType
	if err := r.db.Where("code = ?", code).First(&docType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &docType, nil
}

// List 获取全部单据类型
func (r *GormDocumentTypeRepository) List() ([]models.DocumentType, error) {
	docTypes := make([]models.DocumentType, 0)
	if err := r.db.Order("code ASC").Find(&docTypes).Error; err != nil {
		return nil, err
	}
	return docTypes, nil
}

// Create 创建单据类型
func (r *GormDocumentTypeRepository) Create(docType *models.DocumentType) error {
	return r.db.Create(docType).Error
}
