package repository

import (
	"errors"

	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArticleRepository 物料主数据访问接口
type ArticleRepository interface {
	GetByCode(code string) (*models.Article, error)
	UnitFactor(articleCode, fromUnit, toUnit string) (decimal.Decimal, error)
	List(page, pageSize int) ([]models.Article, int64, error)
	Create(article *models.Article) error
	WithTx(tx *gorm.DB) *GormArticleRepository
}

// GormArticleRepository GORM 实现
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建物料仓库
func NewArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormArticleRepository) WithTx(tx *gorm.DB) *GormArticleRepository {
	if tx == nil {
		return r
	}
	return &GormArticleRepository{db: tx}
}

// GetByCode 根据编码获取物料
func (r *GormArticleRepository) GetByCode(code string) (*models.Article, error) {
	var article models.Article
	if err := r.db.Where("code = ?", code).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// UnitFactor 获取物料的单位换算系数；同单位返回 1，缺换算记录返回 0。
func (r *GormArticleRepository) UnitFactor(articleCode, fromUnit, toUnit string) (decimal.Decimal, error) {
	if fromUnit == toUnit {
		return decimal.NewFromInt(1), nil
	}
	var conv models.UnitConversion
	err := r.db.Where("article_code = ? AND from_unit = ? AND to_unit = ?", articleCode, fromUnit, toUnit).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return conv.Factor.Decimal, nil
}

// List 分页查询物料列表
func (r *GormArticleRepository) List(page, pageSize int) ([]models.Article, int64, error) {
	var total int64
	if err := r.db.Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	articles := make([]models.Article, 0)
	err := applyPagination(r.db.Order("code ASC"), page, pageSize).Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Create 创建物料
func (r *GormArticleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}
