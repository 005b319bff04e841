package settlement

import (
	"testing"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
)

func amount(s string) models.Amount {
	return models.NewAmount(decimal.RequireFromString(s))
}

func grossTotals(s string) *VolumeTotals {
	return &VolumeTotals{Gross: decimal.RequireFromString(s)}
}

func percentBracket(from, to, rate string) models.ScaleBracket {
	return models.ScaleBracket{
		FromValue: amount(from),
		ToValue:   amount(to),
		Value:     amount(rate),
		CalcBasis: constants.BasisGross,
		Formula:   constants.FormulaPercentage,
	}
}

func TestComputeRebateAllRangeSingleBracketCapped(t *testing.T) {
	// 2000 的采购量只消耗 [0,1000) 一档：1000 × 5% = 50
	brackets := []models.ScaleBracket{percentBracket("0", "1000", "5")}
	result := ComputeRebate(true, constants.BasisGross, grossTotals("2000"), decimal.NewFromInt(2000), brackets)

	if !result.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("rebate = %s, want 50", result.Amount)
	}
	if len(result.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(result.Details))
	}
}

func TestComputeRebateAllRangeTwoBrackets(t *testing.T) {
	// 第二档 [1000,∞) 10%：50 + 1000 × 10% = 150
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		percentBracket("1000", "999999999", "10"),
	}
	result := ComputeRebate(true, constants.BasisGross, grossTotals("2000"), decimal.NewFromInt(2000), brackets)

	if !result.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("rebate = %s, want 150", result.Amount)
	}
	if len(result.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(result.Details))
	}
}

func TestComputeRebateAllRangeMonotonic(t *testing.T) {
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		percentBracket("1000", "5000", "10"),
		percentBracket("5000", "999999999", "15"),
	}

	prev := decimal.Zero
	for _, comp := range []int64{0, 100, 999, 1000, 1001, 4999, 5000, 20000} {
		result := ComputeRebate(true, constants.BasisGross,
			grossTotals("20000"), decimal.NewFromInt(comp), brackets)
		if result.Amount.LessThan(prev) {
			t.Fatalf("rebate decreased at comp=%d: %s < %s", comp, result.Amount, prev)
		}
		prev = result.Amount
	}
}

func TestComputeRebateAllRangeContributionsSumExactly(t *testing.T) {
	brackets := []models.ScaleBracket{
		percentBracket("0", "333.33", "3.7"),
		percentBracket("333.33", "666.67", "7.1"),
		percentBracket("666.67", "999999999", "11.9"),
	}
	result := ComputeRebate(true, constants.BasisGross,
		grossTotals("1234.56"), decimal.RequireFromString("1234.56"), brackets)

	sum := decimal.Zero
	for _, detail := range result.Details {
		if detail.RebateAmount == nil {
			t.Fatalf("detail without amount: %+v", detail)
		}
		sum = sum.Add(detail.RebateAmount.Decimal)
	}
	// 明细按 2 位小数落库，与总额的差不超过明细数的最小货币单位
	if sum.Sub(result.Amount).Abs().GreaterThan(decimal.RequireFromString("0.03")) {
		t.Fatalf("details sum %s vs total %s", sum, result.Amount)
	}
}

func TestComputeRebateAllRangeHealsGaps(t *testing.T) {
	// 配置留下 [1000,2000) 的空档：第二档下限取上一档上限 2000 与声明值的较大者
	brackets := []models.ScaleBracket{
		percentBracket("0", "2000", "5"),
		percentBracket("1000", "999999999", "10"),
	}
	result := ComputeRebate(true, constants.BasisGross, grossTotals("3000"), decimal.NewFromInt(3000), brackets)

	// 100 (2000×5%) + 100 ((3000-2000)×10%)
	if !result.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("rebate = %s, want 200", result.Amount)
	}
	if !result.Details[1].FromValue.Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("second detail from = %s, want 2000", result.Details[1].FromValue)
	}
}

func TestComputeRebateAllRangeSkipsExceededExpectedBracket(t *testing.T) {
	mid := percentBracket("1000", "2000", "50")
	mid.Expected = true
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		mid,
		percentBracket("2000", "999999999", "10"),
	}
	result := ComputeRebate(true, constants.BasisGross, grossTotals("3000"), decimal.NewFromInt(3000), brackets)

	// 中间档被超出后整段忽略：50 + (3000-2000)×10% = 150
	if !result.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("rebate = %s, want 150", result.Amount)
	}
	if len(result.Details) != 2 {
		t.Fatalf("details = %d, want 2 (expected bracket skipped)", len(result.Details))
	}
}

func TestComputeRebateAllRangeExpectedBracketInsideRange(t *testing.T) {
	mid := percentBracket("1000", "2000", "50")
	mid.Expected = true
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		mid,
	}
	result := ComputeRebate(true, constants.BasisGross, grossTotals("1500"), decimal.NewFromInt(1500), brackets)

	// 未超出时中间档正常参与：50 + 500×50% = 300
	if !result.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("rebate = %s, want 300", result.Amount)
	}
}

func TestComputeRebateAllRangeQuantityBasisSeparate(t *testing.T) {
	qtyBracket := models.ScaleBracket{
		FromValue:     amount("0"),
		ToValue:       amount("1000"),
		Value:         amount("0.01"),
		CalcBasis:     constants.BasisQuantity,
		Formula:       constants.FormulaUnitValue,
		RewardArticle: "GIFT1",
	}
	totals := &VolumeTotals{
		Gross:    decimal.NewFromInt(500),
		Quantity: decimal.NewFromInt(50),
	}
	result := ComputeRebate(true, constants.BasisGross, totals, decimal.NewFromInt(500), []models.ScaleBracket{qtyBracket})

	// 消耗 500，数量换算比 50/500=0.1 → 数量基准值 50，单位值 0.01 → 赠品 0.5
	if !result.Amount.IsZero() {
		t.Fatalf("monetary rebate = %s, want 0", result.Amount)
	}
	if !result.Quantity.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("rebate quantity = %s, want 0.5", result.Quantity)
	}
	if result.Details[0].RebateQty == nil || result.Details[0].RebateAmount != nil {
		t.Fatalf("quantity detail must carry qty only: %+v", result.Details[0])
	}
}

func TestComputeRebateReachedRangeSelectsSingleBracket(t *testing.T) {
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		percentBracket("1000", "5000", "10"),
		percentBracket("5000", "999999999", "15"),
	}
	result := ComputeRebate(false, constants.BasisGross, grossTotals("2000"), decimal.NewFromInt(2000), brackets)

	// 总量整体按所达档计算：2000 × 10% = 200
	if !result.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("rebate = %s, want 200", result.Amount)
	}
	if len(result.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(result.Details))
	}
}

func TestComputeRebateReachedRangeBoundaryTieBreak(t *testing.T) {
	// 相接边界同时命中两档时取低 from 档
	brackets := []models.ScaleBracket{
		percentBracket("0", "1000", "5"),
		percentBracket("1000", "5000", "10"),
	}
	result := ComputeRebate(false, constants.BasisGross, grossTotals("1000"), decimal.NewFromInt(1000), brackets)

	if len(result.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(result.Details))
	}
	if !result.Details[0].ToValue.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("selected bracket to = %s, want 1000", result.Details[0].ToValue)
	}
	if !result.Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("rebate = %s, want 1000×5%% = 50", result.Amount)
	}
}

func TestComputeRebateReachedRangeFixedTotal(t *testing.T) {
	bracket := models.ScaleBracket{
		FromValue: amount("1000"),
		ToValue:   amount("5000"),
		Value:     amount("300"),
		CalcBasis: constants.BasisGross,
		Formula:   constants.FormulaTotalValue,
	}
	result := ComputeRebate(false, constants.BasisGross, grossTotals("2500"), decimal.NewFromInt(2500), []models.ScaleBracket{bracket})

	if !result.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("rebate = %s, want fixed 300", result.Amount)
	}
}

func TestComputeRebateZeroDenominatorRatio(t *testing.T) {
	// 数量总计为零时，换算到数量基准的比值按零处理而不是崩溃
	bracket := models.ScaleBracket{
		FromValue: amount("0"),
		ToValue:   amount("1000"),
		Value:     amount("1"),
		CalcBasis: constants.BasisQuantity,
		Formula:   constants.FormulaUnitValue,
	}
	totals := &VolumeTotals{Gross: decimal.NewFromInt(500)}
	result := ComputeRebate(true, constants.BasisGross, totals, decimal.NewFromInt(500), []models.ScaleBracket{bracket})

	if !result.Quantity.IsZero() {
		t.Fatalf("rebate quantity = %s, want 0", result.Quantity)
	}
}
