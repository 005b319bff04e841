package settlement

import (
	"fmt"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/shopspring/decimal"
)

// SupplierVolume 单个供应商的采购量小计
type SupplierVolume struct {
	Gross    decimal.Decimal
	Net      decimal.Decimal
	Quantity decimal.Decimal
}

// VolumeTotals 采购量归集结果：总计 + 多供应商结算时的分供应商小计
type VolumeTotals struct {
	Gross    decimal.Decimal
	Net      decimal.Decimal
	Quantity decimal.Decimal

	// BySupplier 仅在多于一个结算供应商时填充
	BySupplier map[string]*SupplierVolume
}

// IsZero 三项总计是否全为零
func (t *VolumeTotals) IsZero() bool {
	return t.Gross.IsZero() && t.Net.IsZero() && t.Quantity.IsZero()
}

// Aggregator 采购量归集器：按加权区间拉取单据行，折算币种与计量单位后
// 按公司/分支/供应商分组累计，并为每组写入留痕行。
type Aggregator struct {
	purchases   repository.PurchaseRepository
	settlements repository.SettlementRepository
	articles    repository.ArticleRepository
	rates       repository.RateRepository
}

// NewAggregator 创建采购量归集器
func NewAggregator(purchases repository.PurchaseRepository, settlements repository.SettlementRepository,
	articles repository.ArticleRepository, rates repository.RateRepository) *Aggregator {
	return &Aggregator{
		purchases:   purchases,
		settlements: settlements,
		articles:    articles,
		rates:       rates,
	}
}

type volumeGroupKey struct {
	company  string
	branch   string
	supplier string
}

// Aggregate 归集合同在各加权区间内的采购量。suppliers 限定查询范围
// （合同全部供应商），settling 决定是否并行累计分供应商小计。
func (a *Aggregator) Aggregate(contract *models.RebateContract, ranges []WeightedRange,
	filter *SourceFilter, suppliers, settling []string) (*VolumeTotals, error) {

	totals := &VolumeTotals{}
	if len(settling) > 1 {
		totals.BySupplier = make(map[string]*SupplierVolume, len(settling))
		for _, code := range settling {
			totals.BySupplier[code] = &SupplierVolume{}
		}
	}

	cond, condArgs := filter.Compile()

	for _, rng := range ranges {
		lines, err := a.purchases.VolumeLines(repository.VolumeQuery{
			PeriodStart: rng.Start,
			PeriodEnd:   rng.End,
			Suppliers:   suppliers,
			SourceCond:  cond,
			SourceArgs:  condArgs,
		})
		if err != nil {
			return nil, fmt.Errorf("query volume lines: %w", err)
		}

		if err := a.foldRange(contract, rng, lines, totals); err != nil {
			return nil, err
		}
	}
	return totals, nil
}

// foldRange 折叠单个区间的单据行，每个公司/分支/供应商组累计一次并留痕。
func (a *Aggregator) foldRange(contract *models.RebateContract, rng WeightedRange,
	lines []repository.VolumeLine, totals *VolumeTotals) error {

	var gross, net, qty decimal.Decimal

	fold := GroupFold[repository.VolumeLine, volumeGroupKey]{
		Key: func(line repository.VolumeLine) volumeGroupKey {
			return volumeGroupKey{company: line.CompanyCode, branch: line.BranchCode, supplier: line.SupplierCode}
		},
		OnGroupStart: func(line repository.VolumeLine) error {
			gross, net, qty = decimal.Zero, decimal.Zero, decimal.Zero
			return nil
		},
		OnRow: func(line repository.VolumeLine) error {
			lineQty, lineGross, lineNet, err := a.convertLine(contract, line)
			if err != nil {
				return err
			}
			qty = qty.Add(lineQty)
			gross = gross.Add(lineGross)
			net = net.Add(lineNet)
			return nil
		},
		OnGroupEnd: func(line repository.VolumeLine) error {
			weightedGross := gross.Mul(rng.Factor)
			weightedNet := net.Mul(rng.Factor)
			weightedQty := qty.Mul(rng.Factor)

			audit := models.VolumeAudit{
				ContractID:   contract.ID,
				CompanyCode:  line.CompanyCode,
				BranchCode:   line.BranchCode,
				SupplierCode: line.SupplierCode,
				PeriodStart:  rng.Start,
				PeriodEnd:    rng.End,
				Factor:       models.NewAmount(rng.Factor),
				GrossAmount:  models.NewAmount(weightedGross),
				NetAmount:    models.NewAmount(weightedNet),
				Quantity:     models.NewAmount(weightedQty),
			}
			if err := a.settlements.CreateVolumeAudits([]models.VolumeAudit{audit}); err != nil {
				return fmt.Errorf("persist volume audit: %w", err)
			}

			totals.Gross = totals.Gross.Add(weightedGross)
			totals.Net = totals.Net.Add(weightedNet)
			totals.Quantity = totals.Quantity.Add(weightedQty)

			if supplier, ok := totals.BySupplier[line.SupplierCode]; ok {
				supplier.Gross = supplier.Gross.Add(weightedGross)
				supplier.Net = supplier.Net.Add(weightedNet)
				supplier.Quantity = supplier.Quantity.Add(weightedQty)
			}
			return nil
		},
	}
	return fold.Run(lines)
}

// convertLine 把一行折算为基础计量单位与合同币种，退货类型取反。
func (a *Aggregator) convertLine(contract *models.RebateContract, line repository.VolumeLine) (qty, gross, net decimal.Decimal, err error) {
	qty = line.Quantity
	if line.BaseUnit != "" && line.Unit != line.BaseUnit {
		factor, err := a.articles.UnitFactor(line.ArticleCode, line.Unit, line.BaseUnit)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("unit factor %s %s->%s: %w", line.ArticleCode, line.Unit, line.BaseUnit, err)
		}
		if factor.IsZero() {
			logger.Warnw("volume_unit_conversion_missing",
				"article", line.ArticleCode, "from_unit", line.Unit, "to_unit", line.BaseUnit)
		} else {
			qty = qty.Mul(factor)
		}
	}

	gross = line.Quantity.Mul(line.Price)
	net = line.NetAmount.Mul(decimal.NewFromInt(1).Sub(line.GeneralDiscountPct.Div(decimal.NewFromInt(100))))

	rate, err := a.rates.Rate(line.Currency, contract.Currency, line.MoveDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("exchange rate %s->%s: %w", line.Currency, contract.Currency, err)
	}
	if rate.IsZero() {
		return decimal.Zero, decimal.Zero, decimal.Zero,
			fmt.Errorf("exchange rate %s->%s missing as of %s", line.Currency, contract.Currency, line.MoveDate.Format("2006-01-02"))
	}
	gross = gross.Mul(rate)
	net = net.Mul(rate)

	if line.VolumeFlag == constants.VolumeFlagNegate {
		qty = qty.Neg()
		gross = gross.Neg()
		net = net.Neg()
	}
	return qty, gross, net, nil
}
