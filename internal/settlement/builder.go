package settlement

import (
	"fmt"
	"time"

	"github.com/fanli-next/internal/document"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/shopspring/decimal"
)

// Builder 结算落库与单据生成：冲销上月预提、持久化结算记录/明细/分摊，
// 并按比例为每个结算供应商生成入账单据。
type Builder struct {
	settlements repository.SettlementRepository
	purchases   repository.PurchaseRepository
	docs        *document.Service
	addressType string
}

// NewBuilder 创建结算构建器
func NewBuilder(settlements repository.SettlementRepository, purchases repository.PurchaseRepository,
	docs *document.Service, addressType string) *Builder {
	return &Builder{
		settlements: settlements,
		purchases:   purchases,
		docs:        docs,
		addressType: addressType,
	}
}

// BuildInput 单个合同一次结算/预提的全部输入
type BuildInput struct {
	Contract    *models.RebateContract
	PeriodStart time.Time
	ProcessDate time.Time
	Settlement  bool
	Totals      *VolumeTotals
	Rebate      RebateResult
	Settling    []string // 结算供应商，迭代顺序即分摊顺序
}

// BuildOutput 结算结果：记录（零量占位时为 nil）与生成的单据
type BuildOutput struct {
	Record *models.SettlementRecord
	DocIDs []uint
}

// Build 执行结算落库与单据生成。
func (b *Builder) Build(in BuildInput) (*BuildOutput, error) {
	out := &BuildOutput{}

	// 期间首个子期间不冲销，其余子期间先冲销上月预提
	firstSliceEnd := addMonthsClamped(in.PeriodStart, 1).AddDate(0, 0, -1)
	if !firstSliceEnd.Equal(in.ProcessDate) {
		if err := b.cancelPreviousProvision(in.Contract, in.ProcessDate); err != nil {
			return nil, err
		}
	}

	docType := in.Contract.ProvisionDocType
	if in.Settlement {
		docType = in.Contract.SettleDocType
	}

	// 无采购量：只出一张零额占位单，让下游对每个到期期间都见到单据
	if in.Totals.IsZero() {
		doc, err := b.docs.Generate(b.header(in, docType, in.Contract.SupplierCode), []document.Line{
			{
				ArticleCode: in.Contract.RewardArticle,
				Variant:     "0",
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.Zero,
			},
		})
		if err != nil {
			return nil, err
		}
		out.DocIDs = append(out.DocIDs, doc.ID)
		return out, nil
	}

	if !in.Rebate.Amount.IsZero() && in.Contract.RewardArticle == "" {
		return nil, fmt.Errorf("%w: contract %s", ErrMissingRewardArticle, in.Contract.ContractNo)
	}

	record := &models.SettlementRecord{
		ContractID:   in.Contract.ID,
		SupplierCode: in.Contract.SupplierCode,
		IsProvision:  !in.Settlement,
		PeriodStart:  in.PeriodStart,
		PeriodEnd:    in.ProcessDate,
		GrossAmount:  models.NewAmount(in.Totals.Gross),
		NetAmount:    models.NewAmount(in.Totals.Net),
		Quantity:     models.NewAmount(in.Totals.Quantity),
		RebateAmount: models.NewMoney(in.Rebate.Amount),
		RebateQty:    models.NewAmount(in.Rebate.Quantity),
		Details:      in.Rebate.Details,
	}
	if in.Totals.BySupplier != nil {
		for _, code := range in.Settling {
			supplier := in.Totals.BySupplier[code]
			record.Distributions = append(record.Distributions, models.SupplierDistribution{
				ContractID:   in.Contract.ID,
				SupplierCode: code,
				GrossAmount:  models.NewAmount(supplier.Gross),
				NetAmount:    models.NewAmount(supplier.Net),
				Quantity:     models.NewAmount(supplier.Quantity),
			})
		}
	}
	if err := b.settlements.Create(record); err != nil {
		return nil, fmt.Errorf("persist settlement record: %w", err)
	}
	out.Record = record

	docIDs, err := b.emitSupplierDocs(in, docType, record)
	if err != nil {
		return nil, err
	}
	out.DocIDs = docIDs
	return out, nil
}

// supplierShare 供应商分摊比例
type supplierShare struct {
	code string
	pct  decimal.Decimal
}

// shares 按对比基准计算每个结算供应商的分摊比例。单供应商恒为 1；
// 分母为零时退化为主供应商全额。
func (b *Builder) shares(in BuildInput) []supplierShare {
	if in.Totals.BySupplier == nil {
		return []supplierShare{{code: in.Contract.SupplierCode, pct: decimal.NewFromInt(1)}}
	}

	supplierBasis := func(v *SupplierVolume) decimal.Decimal {
		return rawBasisTotal(in.Contract.ComparisonBasis, &VolumeTotals{Gross: v.Gross, Net: v.Net, Quantity: v.Quantity})
	}
	grandBasis := rawBasisTotal(in.Contract.ComparisonBasis, in.Totals)
	if grandBasis.IsZero() {
		return []supplierShare{{code: in.Contract.SupplierCode, pct: decimal.NewFromInt(1)}}
	}

	result := make([]supplierShare, 0, len(in.Settling))
	for _, code := range in.Settling {
		supplier, ok := in.Totals.BySupplier[code]
		if !ok {
			continue
		}
		result = append(result, supplierShare{code: code, pct: supplierBasis(supplier).Div(grandBasis)})
	}
	return result
}

// emitSupplierDocs 按分摊比例为每个供应商生成单据，关联行到结算记录。
// 货币份额按 2 位小数取整，余数并入最后一个非零供应商保证合计不漂移。
func (b *Builder) emitSupplierDocs(in BuildInput, docType string, record *models.SettlementRecord) ([]uint, error) {
	shares := b.shares(in)

	// 非零供应商中最后一个吃掉取整余数
	lastNonZero := -1
	for i, share := range shares {
		if !share.pct.IsZero() {
			lastNonZero = i
		}
	}

	var docIDs []uint
	var links []models.SettlementDocLink
	distributed := decimal.Zero

	for i, share := range shares {
		if share.pct.IsZero() {
			continue
		}

		var lines []document.Line
		if !in.Rebate.Amount.IsZero() {
			price := in.Rebate.Amount.Mul(share.pct).Round(2)
			if i == lastNonZero {
				price = in.Rebate.Amount.Round(2).Sub(distributed)
			}
			distributed = distributed.Add(price)
			lines = append(lines, document.Line{
				ArticleCode: in.Contract.RewardArticle,
				Variant:     defaultVariant(in.Contract.RewardVariant),
				Quantity:    decimal.NewFromInt(1),
				Price:       price,
				ContractID:  in.Contract.ID,
			})
		}
		for _, detail := range in.Rebate.Details {
			if detail.RewardArticle == "" || detail.RebateQty == nil {
				continue
			}
			lines = append(lines, document.Line{
				ArticleCode: detail.RewardArticle,
				Variant:     defaultVariant(detail.RewardVariant),
				Quantity:    detail.RebateQty.Decimal.Mul(share.pct),
				ContractID:  in.Contract.ID,
			})
		}
		if len(lines) == 0 {
			continue
		}

		doc, err := b.docs.Generate(b.header(in, docType, share.code), lines)
		if err != nil {
			return nil, err
		}
		docIDs = append(docIDs, doc.ID)
		for _, line := range doc.Lines {
			links = append(links, models.SettlementDocLink{RecordID: record.ID, LineID: line.ID})
		}
	}

	if err := b.settlements.CreateDocLinks(links); err != nil {
		return nil, fmt.Errorf("link settlement documents: %w", err)
	}
	return docIDs, nil
}

func (b *Builder) header(in BuildInput, docType, supplierCode string) document.Header {
	return document.Header{
		DocType:      docType,
		CompanyCode:  in.Contract.CompanyCode,
		SupplierCode: supplierCode,
		AddressType:  b.addressType,
		Currency:     in.Contract.Currency,
		PartnerRef:   in.Contract.ContractNo,
		Comment:      fmt.Sprintf("PER: %s - %s", in.PeriodStart.Format("2006-01-02"), in.ProcessDate.Format("2006-01-02")),
		MoveDate:     in.ProcessDate,
	}
}

func defaultVariant(variant string) string {
	if variant == "" {
		return "0"
	}
	return variant
}

// cancelPreviousProvision 在上一个自然月窗口内找到为该合同生成的预提单
// 并生成反向单（跨年时窗口正确落到上一年 12 月）。
func (b *Builder) cancelPreviousProvision(contract *models.RebateContract, processDate time.Time) error {
	prev := addMonthsClamped(processDate, -1)
	monthStart := time.Date(prev.Year(), prev.Month(), 1, 0, 0, 0, 0, prev.Location())
	monthEnd := time.Date(prev.Year(), prev.Month(), daysInMonth(prev.Year(), prev.Month()), 0, 0, 0, 0, prev.Location())
	orig, err := b.purchases.FindGeneratedDoc(contract.ContractNo, contract.ProvisionDocType, monthStart, monthEnd)
	if err != nil {
		return fmt.Errorf("find previous provision: %w", err)
	}
	if orig == nil {
		return nil
	}
	if _, err := b.docs.CancelCopy(orig, contract.ID, processDate); err != nil {
		return err
	}
	return nil
}
