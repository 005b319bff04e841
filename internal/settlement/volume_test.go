package settlement

import (
	"fmt"
	"testing"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newAggregatorTest(t *testing.T) (*gorm.DB, *Aggregator) {
	t.Helper()
	db, _ := setupEngineTest(t)
	agg := NewAggregator(
		repository.NewPurchaseRepository(db),
		repository.NewSettlementRepository(db),
		repository.NewArticleRepository(db),
		repository.NewRateRepository(db))
	return db, agg
}

func seedVolumeDoc(t *testing.T, db *gorm.DB, docType, supplier, currency, unit string,
	moveDate time.Time, qty, price, net, discountPct int64, status string) {
	t.Helper()
	doc := models.PurchaseDocument{
		DocNo:              fmt.Sprintf("%s-%s-%d", docType, supplier, time.Now().UnixNano()),
		DocType:            docType,
		CompanyCode:        "C01",
		SupplierCode:       supplier,
		Currency:           currency,
		MoveDate:           moveDate,
		Status:             status,
		GeneralDiscountPct: models.NewAmount(decimal.NewFromInt(discountPct)),
		Lines: []models.PurchaseLine{
			{
				ArticleCode: "ART-1",
				Variant:     "0",
				Unit:        unit,
				Quantity:    models.NewAmount(decimal.NewFromInt(qty)),
				Price:       models.NewMoney(decimal.NewFromInt(price)),
				NetAmount:   models.NewMoney(decimal.NewFromInt(net)),
			},
		},
	}
	if status == constants.DocStatusValidated {
		now := time.Now()
		doc.ValidatedAt = &now
	}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("创建单据失败: %v", err)
	}
}

func volumeTestContract() *models.RebateContract {
	return &models.RebateContract{
		ID: 77, ContractNo: "C-V01", CompanyCode: "C01",
		SupplierCode: "S20", Currency: "CNY",
		ComparisonBasis: constants.BasisGross,
	}
}

func oneRange(start, end time.Time) []WeightedRange {
	return []WeightedRange{{Start: start, End: end, Factor: decimal.NewFromInt(1)}}
}

func TestAggregatorFlagsAndNegation(t *testing.T) {
	db, agg := newAggregatorTest(t)

	retType := models.DocumentType{Code: "RET", Name: "退货", VolumeFlag: constants.VolumeFlagNegate}
	if err := db.Create(&retType).Error; err != nil {
		t.Fatalf("创建单据类型失败: %v", err)
	}

	jan := testDate(2026, 1, 10)
	// 正向采购 10×5，整单折扣 10%
	seedVolumeDoc(t, db, "PO", "S20", "CNY", "EA", jan, 10, 5, 50, 10, constants.DocStatusValidated)
	// 退货 2×5 反向计入
	seedVolumeDoc(t, db, "RET", "S20", "CNY", "EA", jan, 2, 5, 10, 0, constants.DocStatusValidated)
	// 不计量类型、引擎自产类型与草稿单均不计入
	seedVolumeDoc(t, db, "RBS", "S20", "CNY", "EA", jan, 100, 100, 100, 0, constants.DocStatusValidated)
	seedVolumeDoc(t, db, "PO", "S20", "CNY", "EA", jan, 100, 100, 100, 0, constants.DocStatusDraft)

	totals, err := agg.Aggregate(volumeTestContract(),
		oneRange(testDate(2026, 1, 1), testDate(2026, 1, 31)),
		BuildSourceFilter(nil), []string{"S20"}, []string{"S20"})
	if err != nil {
		t.Fatalf("归集失败: %v", err)
	}

	if got := totals.Gross.StringFixed(2); got != "40.00" {
		t.Errorf("毛额 = %s, 期望 40.00", got)
	}
	if got := totals.Net.StringFixed(2); got != "35.00" {
		t.Errorf("净额 = %s, 期望 35.00", got)
	}
	if got := totals.Quantity.StringFixed(2); got != "8.00" {
		t.Errorf("数量 = %s, 期望 8.00", got)
	}
	if totals.BySupplier != nil {
		t.Errorf("单结算供应商不应有分供应商小计")
	}
}

func TestAggregatorCurrencyAndUnitConversion(t *testing.T) {
	db, agg := newAggregatorTest(t)

	rate := models.ExchangeRate{
		FromCurrency: "USD", ToCurrency: "CNY",
		ValidFrom: testDate(2025, 12, 1),
		Rate:      models.NewAmount(decimal.NewFromInt(7)),
	}
	if err := db.Create(&rate).Error; err != nil {
		t.Fatalf("创建汇率失败: %v", err)
	}
	conversion := models.UnitConversion{
		ArticleCode: "ART-1", FromUnit: "CS", ToUnit: "EA",
		Factor: models.NewAmount(decimal.NewFromInt(12)),
	}
	if err := db.Create(&conversion).Error; err != nil {
		t.Fatalf("创建单位换算失败: %v", err)
	}

	// 1 箱 ×10 美元，净额 10 美元
	seedVolumeDoc(t, db, "PO", "S20", "USD", "CS", testDate(2026, 1, 10), 1, 10, 10, 0, constants.DocStatusValidated)

	totals, err := agg.Aggregate(volumeTestContract(),
		oneRange(testDate(2026, 1, 1), testDate(2026, 1, 31)),
		BuildSourceFilter(nil), []string{"S20"}, []string{"S20"})
	if err != nil {
		t.Fatalf("归集失败: %v", err)
	}

	if got := totals.Gross.StringFixed(2); got != "70.00" {
		t.Errorf("折算毛额 = %s, 期望 70.00", got)
	}
	if got := totals.Net.StringFixed(2); got != "70.00" {
		t.Errorf("折算净额 = %s, 期望 70.00", got)
	}
	if got := totals.Quantity.StringFixed(2); got != "12.00" {
		t.Errorf("折算数量 = %s, 期望 12.00", got)
	}
}

func TestAggregatorMissingRate(t *testing.T) {
	db, agg := newAggregatorTest(t)

	seedVolumeDoc(t, db, "PO", "S20", "EUR", "EA", testDate(2026, 1, 10), 1, 10, 10, 0, constants.DocStatusValidated)

	_, err := agg.Aggregate(volumeTestContract(),
		oneRange(testDate(2026, 1, 1), testDate(2026, 1, 31)),
		BuildSourceFilter(nil), []string{"S20"}, []string{"S20"})
	if err == nil {
		t.Fatalf("缺失汇率应报错")
	}
}

func TestAggregatorWeightedAuditRows(t *testing.T) {
	db, agg := newAggregatorTest(t)

	seedVolumeDoc(t, db, "PO", "S20", "CNY", "EA", testDate(2026, 1, 10), 10, 10, 100, 0, constants.DocStatusValidated)
	seedVolumeDoc(t, db, "PO", "S21", "CNY", "EA", testDate(2026, 1, 12), 20, 10, 200, 0, constants.DocStatusValidated)

	half := decimal.NewFromFloat(0.5)
	ranges := []WeightedRange{
		{Start: testDate(2026, 1, 1), End: testDate(2026, 1, 31), Factor: half},
	}

	totals, err := agg.Aggregate(volumeTestContract(), ranges,
		BuildSourceFilter(nil), []string{"S20", "S21"}, []string{"S20", "S21"})
	if err != nil {
		t.Fatalf("归集失败: %v", err)
	}

	// 加权后的总计：(100+200)×0.5
	if got := totals.Gross.StringFixed(2); got != "150.00" {
		t.Errorf("加权毛额 = %s, 期望 150.00", got)
	}
	if got := totals.BySupplier["S20"].Gross.StringFixed(2); got != "50.00" {
		t.Errorf("S20 加权毛额 = %s, 期望 50.00", got)
	}
	if got := totals.BySupplier["S21"].Gross.StringFixed(2); got != "100.00" {
		t.Errorf("S21 加权毛额 = %s, 期望 100.00", got)
	}

	// 每个公司/分支/供应商组各留痕一行，金额已乘权重
	var audits []models.VolumeAudit
	if err := db.Order("supplier_code ASC").Find(&audits).Error; err != nil {
		t.Fatalf("查询留痕失败: %v", err)
	}
	if len(audits) != 2 {
		t.Fatalf("留痕行数 = %d, 期望 2", len(audits))
	}
	if got := audits[0].GrossAmount.String(); got != "50.000000" {
		t.Errorf("S20 留痕毛额 = %s, 期望 50", got)
	}
	if got := audits[0].Factor.String(); got != "0.500000" {
		t.Errorf("留痕权重 = %s, 期望 0.5", got)
	}
	if audits[1].SupplierCode != "S21" {
		t.Errorf("留痕供应商 = %s, 期望 S21", audits[1].SupplierCode)
	}
}
