package models

import "time"

// ExchangeRate 汇率表。取 valid_from 不晚于交易日的最新一条。
type ExchangeRate struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FromCurrency string    `gorm:"index:idx_rate_pair;not null" json:"from_currency"`
	ToCurrency   string    `gorm:"index:idx_rate_pair;not null" json:"to_currency"`
	ValidFrom    time.Time `gorm:"index;not null" json:"valid_from"`
	Rate         Amount    `gorm:"type:decimal(20,8);not null" json:"rate"`
}

// TableName 指定表名
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
