package settlement

import (
	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
)

// RebateResult 阶梯计算结果。货币类与数量类互斥地累计在
// Amount / Quantity 上，明细行按参与计算的阶梯各留一条。
type RebateResult struct {
	Amount   decimal.Decimal // 货币返利总额
	Quantity decimal.Decimal // 数量（赠品）返利总额
	Details  []models.SettlementDetail
}

// ComputeRebate 按合同的阶梯模式计算返利。
//
// 全阶梯（allRange）：按 from 升序逐级消耗对比金额；阶梯生效下限取
// 声明值与上一档上限的较大者（自动弥合配置空档）。标记 expected 的
// 中间阶梯在对比金额超出其上限后整段忽略。
// 达量阶梯：只取覆盖对比金额的那一档整档计算，from ≤ amount ≤ to，
// 多档相接时低 from 优先。
func ComputeRebate(allRange bool, basis constants.Basis, totals *VolumeTotals, compAmount decimal.Decimal, brackets []models.ScaleBracket) RebateResult {
	if allRange {
		return computeAllRange(basis, totals, compAmount, brackets)
	}
	return computeReachedRange(totals, compAmount, brackets)
}

func computeAllRange(basis constants.Basis, totals *VolumeTotals, compAmount decimal.Decimal, brackets []models.ScaleBracket) RebateResult {
	result := RebateResult{}
	ratios := basisRatios(basis, totals)

	running := decimal.Zero
	first := true
	for _, bracket := range brackets {
		if bracket.FromValue.Decimal.GreaterThanOrEqual(compAmount) {
			continue
		}
		if first {
			running = bracket.FromValue.Decimal
			first = false
		}

		// 被超出的中间阶梯整段忽略，消耗下限保持不变
		if bracket.Expected && compAmount.GreaterThan(bracket.ToValue.Decimal) {
			continue
		}

		from := running
		if bracket.FromValue.Decimal.GreaterThan(from) {
			from = bracket.FromValue.Decimal
		}

		consumed := bracket.ToValue.Decimal.Sub(from)
		if compAmount.LessThan(bracket.ToValue.Decimal) {
			consumed = compAmount.Sub(from)
		}

		basisValue := consumed.Mul(ratios[bracket.CalcBasis])
		contribution := applyFormula(bracket.Formula, basisValue, bracket.Value.Decimal)

		detail := models.SettlementDetail{
			FromValue:     models.NewAmount(from),
			ToValue:       bracket.ToValue,
			CalcBasis:     bracket.CalcBasis,
			Formula:       bracket.Formula,
			Value:         bracket.Value,
			RewardArticle: bracket.RewardArticle,
			RewardVariant: bracket.RewardVariant,
		}
		if bracket.CalcBasis == constants.BasisQuantity {
			qty := models.NewAmount(contribution)
			detail.RebateQty = &qty
			result.Quantity = result.Quantity.Add(contribution)
		} else {
			amount := models.NewMoney(contribution)
			detail.RebateAmount = &amount
			result.Amount = result.Amount.Add(contribution)
		}
		result.Details = append(result.Details, detail)

		running = bracket.ToValue.Decimal
	}
	return result
}

func computeReachedRange(totals *VolumeTotals, compAmount decimal.Decimal, brackets []models.ScaleBracket) RebateResult {
	result := RebateResult{}
	for _, bracket := range brackets {
		if bracket.FromValue.Decimal.GreaterThan(compAmount) || bracket.ToValue.Decimal.LessThan(compAmount) {
			continue
		}

		basisValue := rawBasisTotal(bracket.CalcBasis, totals)
		contribution := applyFormula(bracket.Formula, basisValue, bracket.Value.Decimal)

		detail := models.SettlementDetail{
			FromValue:     bracket.FromValue,
			ToValue:       bracket.ToValue,
			CalcBasis:     bracket.CalcBasis,
			Formula:       bracket.Formula,
			Value:         bracket.Value,
			RewardArticle: bracket.RewardArticle,
			RewardVariant: bracket.RewardVariant,
		}
		if bracket.CalcBasis == constants.BasisQuantity {
			qty := models.NewAmount(contribution)
			detail.RebateQty = &qty
			result.Quantity = contribution
		} else {
			amount := models.NewMoney(contribution)
			detail.RebateAmount = &amount
			result.Amount = contribution
		}
		result.Details = append(result.Details, detail)
		break
	}
	return result
}

// basisRatios 对比基准到三种计算基准的换算比。对比基准自身恒为 1，
// 其余取累计总量的交叉比；分母为零时比值按零处理。
func basisRatios(basis constants.Basis, totals *VolumeTotals) map[constants.Basis]decimal.Decimal {
	denominator := rawBasisTotal(basis, totals)

	ratio := func(numerator decimal.Decimal) decimal.Decimal {
		if denominator.IsZero() {
			return decimal.Zero
		}
		return numerator.Div(denominator)
	}

	ratios := map[constants.Basis]decimal.Decimal{
		constants.BasisGross:    ratio(totals.Gross),
		constants.BasisNet:      ratio(totals.Net),
		constants.BasisQuantity: ratio(totals.Quantity),
	}
	ratios[basis] = decimal.NewFromInt(1)
	return ratios
}

func rawBasisTotal(basis constants.Basis, totals *VolumeTotals) decimal.Decimal {
	switch basis {
	case constants.BasisNet:
		return totals.Net
	case constants.BasisQuantity:
		return totals.Quantity
	default:
		return totals.Gross
	}
}

func applyFormula(formula constants.Formula, basisValue, value decimal.Decimal) decimal.Decimal {
	switch formula {
	case constants.FormulaUnitValue:
		return basisValue.Mul(value)
	case constants.FormulaTotalValue:
		return value
	default:
		return basisValue.Mul(value).Div(decimal.NewFromInt(100))
	}
}
