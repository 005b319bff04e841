package document

import (
	"fmt"
	"testing"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:document_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&models.Article{},
		&models.UnitConversion{},
		&models.DocumentType{},
		&models.PurchaseDocument{},
		&models.PurchaseLine{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	docType := models.DocumentType{Code: "RBS", Name: "返利结算", VolumeFlag: "N", Nature: "R"}
	if err := db.Create(&docType).Error; err != nil {
		t.Fatalf("创建单据类型失败: %v", err)
	}
	article := models.Article{Code: "REB-A", Name: "返利商品", BaseUnit: "KG"}
	if err := db.Create(&article).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}

	svc := NewService(
		repository.NewPurchaseRepository(db),
		repository.NewDocumentTypeRepository(db),
		repository.NewArticleRepository(db))
	return db, svc
}

func serviceTestHeader() Header {
	return Header{
		DocType:      "RBS",
		CompanyCode:  "C01",
		SupplierCode: "S1",
		Currency:     "CNY",
		PartnerRef:   "C-001",
		Comment:      "PER: 2026-01-01 - 2026-01-31",
		MoveDate:     time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestServiceGenerate(t *testing.T) {
	db, svc := setupServiceTest(t)

	doc, err := svc.Generate(serviceTestHeader(), []Line{
		{ArticleCode: "REB-A", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50), ContractID: 9},
		{ArticleCode: "UNKNOWN", Variant: "V1", Quantity: decimal.NewFromInt(2)},
	})
	if err != nil {
		t.Fatalf("生成单据失败: %v", err)
	}

	if doc.DocNo != "RBS-000001" {
		t.Errorf("单据号 = %s, 期望 RBS-000001", doc.DocNo)
	}
	if doc.Status != constants.DocStatusValidated {
		t.Errorf("状态 = %s, 期望 validated", doc.Status)
	}
	if doc.ValidatedAt == nil {
		t.Errorf("过账时间未填")
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("行数 = %d, 期望 2", len(doc.Lines))
	}
	// 计量单位取商品基础单位，缺档案回退 EA；空规格回退 0
	if doc.Lines[0].Unit != "KG" {
		t.Errorf("行单位 = %s, 期望 KG", doc.Lines[0].Unit)
	}
	if doc.Lines[0].Variant != "0" {
		t.Errorf("行规格 = %s, 期望 0", doc.Lines[0].Variant)
	}
	if doc.Lines[1].Unit != "EA" {
		t.Errorf("缺档案行单位 = %s, 期望 EA", doc.Lines[1].Unit)
	}
	if doc.Lines[0].RebateContractID == nil || *doc.Lines[0].RebateContractID != 9 {
		t.Errorf("返利行未回填合同")
	}
	if doc.Lines[1].RebateContractID != nil {
		t.Errorf("普通行不应回填合同")
	}

	// 库内状态与返回值一致
	var stored models.PurchaseDocument
	if err := db.First(&stored, doc.ID).Error; err != nil {
		t.Fatalf("重查单据失败: %v", err)
	}
	if stored.Status != constants.DocStatusValidated {
		t.Errorf("库内状态 = %s, 期望 validated", stored.Status)
	}

	// 同类型第二张单据顺延编号
	second, err := svc.Generate(serviceTestHeader(), []Line{
		{ArticleCode: "REB-A", Quantity: decimal.NewFromInt(1)},
	})
	if err != nil {
		t.Fatalf("生成第二张单据失败: %v", err)
	}
	if second.DocNo != "RBS-000002" {
		t.Errorf("第二张单据号 = %s, 期望 RBS-000002", second.DocNo)
	}
}

func TestServiceGenerateUnknownType(t *testing.T) {
	_, svc := setupServiceTest(t)

	h := serviceTestHeader()
	h.DocType = "NOPE"
	if _, err := svc.Generate(h, nil); err == nil {
		t.Fatalf("未知单据类型应报错")
	}
}

func TestServiceCancelCopy(t *testing.T) {
	_, svc := setupServiceTest(t)

	orig, err := svc.Generate(serviceTestHeader(), []Line{
		{ArticleCode: "REB-A", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100), ContractID: 9},
		{ArticleCode: "REB-A", Quantity: decimal.NewFromInt(3), Price: decimal.NewFromInt(7), ContractID: 8}, // 其它合同
		{ArticleCode: "REB-A", Quantity: decimal.NewFromInt(-2), Price: decimal.NewFromInt(5), ContractID: 9}, // 已是反向
	})
	if err != nil {
		t.Fatalf("生成原始单据失败: %v", err)
	}

	moveDate := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	cancel, err := svc.CancelCopy(orig, 9, moveDate)
	if err != nil {
		t.Fatalf("生成冲销单失败: %v", err)
	}
	if cancel == nil {
		t.Fatalf("冲销单未生成")
	}
	if cancel.CancelOfID == nil || *cancel.CancelOfID != orig.ID {
		t.Errorf("冲销单未引用原单据")
	}
	if len(cancel.Lines) != 1 {
		t.Fatalf("冲销行数 = %d, 期望 1（仅本合同的正向行）", len(cancel.Lines))
	}
	if got := cancel.Lines[0].Quantity.String(); got != "-1.000000" {
		t.Errorf("冲销行数量 = %s, 期望 -1", got)
	}
	if got := cancel.Lines[0].Price.String(); got != "100.00" {
		t.Errorf("冲销行单价 = %s, 期望 100.00", got)
	}
	if want := "CANCEL: [C-001] G: 2026-01-31"; cancel.Comment != want {
		t.Errorf("冲销备注 = %q, 期望 %q", cancel.Comment, want)
	}
	if !cancel.MoveDate.Equal(moveDate) {
		t.Errorf("冲销日期 = %v, 期望 %v", cancel.MoveDate, moveDate)
	}

	// 没有可冲销行时不生成单据
	none, err := svc.CancelCopy(orig, 12345, moveDate)
	if err != nil {
		t.Fatalf("空冲销报错: %v", err)
	}
	if none != nil {
		t.Errorf("无可冲销行仍生成了单据")
	}
}
