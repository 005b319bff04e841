package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money 结算货币金额（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// NewMoney 从 decimal 创建金额
func NewMoney(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字）
func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := unmarshalDecimal(b)
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 用于数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 用于数据库读取
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Amount 采购量/数量类数值（保留 6 位小数，用于毛额、净额与数量的累计）
type Amount struct {
	decimal.Decimal
}

// NewAmount 从 decimal 创建数值
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Decimal: v.Round(6)}
}

// MarshalJSON 统一输出 6 位小数的字符串
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Decimal.Round(6).StringFixed(6))
}

// UnmarshalJSON 解析数值（字符串或数字）
func (a *Amount) UnmarshalJSON(b []byte) error {
	d, err := unmarshalDecimal(b)
	if err != nil {
		return err
	}
	a.Decimal = d.Round(6)
	return nil
}

// Value 用于数据库写入
func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.Round(6).Value()
}

// Scan 用于数据库读取
func (a *Amount) Scan(value interface{}) error {
	if err := a.Decimal.Scan(value); err != nil {
		return err
	}
	a.Decimal = a.Decimal.Round(6)
	return nil
}

// String 返回 6 位小数格式
func (a Amount) String() string {
	return a.Decimal.Round(6).StringFixed(6)
}

func unmarshalDecimal(b []byte) (decimal.Decimal, error) {
	if len(b) == 0 {
		return decimal.Zero, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(f), nil
}
