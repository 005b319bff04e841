package repository

import (
	"errors"
	"time"

	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateRepository 汇率数据访问接口
type RateRepository interface {
	Rate(fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error)
	Create(rate *models.ExchangeRate) error
	WithTx(tx *gorm.DB) *GormRateRepository
}

// GormRateRepository GORM 实现
type GormRateRepository struct {
	db *gorm.DB
}

// NewRateRepository 创建汇率仓库
func NewRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRateRepository) WithTx(tx *gorm.DB) *GormRateRepository {
	if tx == nil {
		return r
	}
	return &GormRateRepository{db: tx}
}

// Rate 查询日期生效的最新汇率；同币种返回 1，缺汇率返回 0。
func (r *GormRateRepository) Rate(fromCurrency, toCurrency string, asOf time.Time) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	var rate models.ExchangeRate
	err := r.db.Where("from_currency = ? AND to_currency = ? AND valid_from <= ?", fromCurrency, toCurrency, asOf).
		Order("valid_from DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return rate.Rate.Decimal, nil
}

// Create 创建汇率记录
func (r *GormRateRepository) Create(rate *models.ExchangeRate) error {
	return r.db.Create(rate).Error
}
