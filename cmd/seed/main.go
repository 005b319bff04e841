package main

import (
	"time"

	"github.com/fanli-next/internal/config"
	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 单据类型
	docTypes := []models.DocumentType{
		{Code: "PO", Name: "采购入库单", VolumeFlag: constants.VolumeFlagInclude},
		{Code: "RET", Name: "采购退货单", VolumeFlag: constants.VolumeFlagNegate},
		{Code: "RBS", Name: "返利结算单", VolumeFlag: constants.VolumeFlagExclude, Nature: constants.DocNatureRebate},
		{Code: "RBP", Name: "返利预提单", VolumeFlag: constants.VolumeFlagExclude, Nature: constants.DocNatureRebate},
	}
	for _, dt := range docTypes {
		var existing models.DocumentType
		if err := models.DB.Where("code = ?", dt.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&dt).Error; err != nil {
				stdLog.Printf("Failed to create document type %s: %v", dt.Code, err)
			} else {
				stdLog.Printf("Created document type: %s", dt.Code)
			}
		} else {
			stdLog.Printf("Document type already exists: %s", dt.Code)
		}
	}

	// 商品档案
	articles := []models.Article{
		{Code: "ART-1001", Name: "380ml 苏打水", BaseUnit: "EA", Manufacturer: "M01", Classification: "BEV", Brand: "Sparkle"},
		{Code: "ART-1002", Name: "500ml 矿泉水", BaseUnit: "EA", Manufacturer: "M01", Classification: "BEV", Brand: "Clear"},
		{Code: "REB-CREDIT", Name: "返利入账科目", BaseUnit: "EA"},
	}
	for _, a := range articles {
		var existing models.Article
		if err := models.DB.Where("code = ?", a.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&a).Error; err != nil {
				stdLog.Printf("Failed to create article %s: %v", a.Code, err)
			} else {
				stdLog.Printf("Created article: %s", a.Code)
			}
		} else {
			stdLog.Printf("Article already exists: %s", a.Code)
		}
	}

	// 整箱换算：1 CS = 24 EA
	var convCount int64
	models.DB.Model(&models.UnitConversion{}).
		Where("article_code = ? AND from_unit = ? AND to_unit = ?", "ART-1001", "CS", "EA").
		Count(&convCount)
	if convCount == 0 {
		conv := models.UnitConversion{
			ArticleCode: "ART-1001",
			FromUnit:    "CS",
			ToUnit:      "EA",
			Factor:      models.NewAmount(decimal.NewFromInt(24)),
		}
		if err := models.DB.Create(&conv).Error; err != nil {
			stdLog.Printf("Failed to create unit conversion: %v", err)
		} else {
			stdLog.Printf("Created unit conversion: ART-1001 CS -> EA")
		}
	}

	// 汇率
	var rateCount int64
	models.DB.Model(&models.ExchangeRate{}).
		Where("from_currency = ? AND to_currency = ?", "USD", "CNY").
		Count(&rateCount)
	if rateCount == 0 {
		rate := models.ExchangeRate{
			FromCurrency: "USD",
			ToCurrency:   "CNY",
			ValidFrom:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Rate:         models.NewAmount(decimal.NewFromFloat(7.15)),
		}
		if err := models.DB.Create(&rate).Error; err != nil {
			stdLog.Printf("Failed to create exchange rate: %v", err)
		} else {
			stdLog.Printf("Created exchange rate: USD -> CNY")
		}
	}

	// 预提测算方法：回看一年，旺季月份上浮
	var method models.ProvisionMethod
	if err := models.DB.Where("code = ?", "STD").First(&method).Error; err != nil {
		method = models.ProvisionMethod{
			Code:      "STD",
			Name:      "标准回看一年",
			YearsBack: 1,
			Factors: []models.ProvisionFactor{
				{Month: 6, Factor: models.NewAmount(decimal.NewFromFloat(1.2))},
				{Month: 12, Factor: models.NewAmount(decimal.NewFromFloat(1.5))},
			},
		}
		if err := models.DB.Create(&method).Error; err != nil {
			stdLog.Printf("Failed to create provision method: %v", err)
		} else {
			stdLog.Printf("Created provision method: STD")
		}
	} else {
		stdLog.Printf("Provision method already exists: STD")
	}

	// 示例合同：季度结算、毛额 2% / 超过 10 万部分 3%
	var contract models.RebateContract
	if err := models.DB.Where("contract_no = ?", "RC-2026-001").First(&contract).Error; err != nil {
		contract = models.RebateContract{
			ContractNo:          "RC-2026-001",
			CompanyCode:         "C01",
			SupplierCode:        "S001",
			Currency:            "CNY",
			StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:             time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Status:              constants.ContractStatusActive,
			CalendarAligned:     true,
			PeriodLength:        constants.PeriodQuarterly,
			ComparisonBasis:     constants.BasisGross,
			AllRange:            true,
			ProvisionMethodCode: "STD",
			RewardArticle:       "REB-CREDIT",
			SettleDocType:       "RBS",
			ProvisionDocType:    "RBP",
			Suppliers: []models.ContractSupplier{
				{SupplierCode: "S001", Settles: true},
			},
			Brackets: []models.ScaleBracket{
				{
					FromValue: models.NewAmount(decimal.Zero),
					ToValue:   models.NewAmount(decimal.NewFromInt(100000)),
					Value:     models.NewAmount(decimal.NewFromInt(2)),
					CalcBasis: constants.BasisGross,
					Formula:   constants.FormulaPercentage,
				},
				{
					FromValue: models.NewAmount(decimal.NewFromInt(100000)),
					ToValue:   models.NewAmount(decimal.NewFromInt(100000000)),
					Value:     models.NewAmount(decimal.NewFromInt(3)),
					CalcBasis: constants.BasisGross,
					Formula:   constants.FormulaPercentage,
				},
			},
		}
		if err := models.DB.Create(&contract).Error; err != nil {
			stdLog.Printf("Failed to create contract: %v", err)
		} else {
			stdLog.Printf("Created contract: RC-2026-001")
		}
	} else {
		stdLog.Printf("Contract already exists: RC-2026-001")
	}

	// 示例采购单据（已过账）
	validatedAt := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	purchases := []models.PurchaseDocument{
		{
			DocNo:        "PO-000101",
			DocType:      "PO",
			CompanyCode:  "C01",
			BranchCode:   "B01",
			SupplierCode: "S001",
			Currency:     "CNY",
			MoveDate:     time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:       constants.DocStatusValidated,
			ValidatedAt:  &validatedAt,
			Lines: []models.PurchaseLine{
				{
					ArticleCode: "ART-1001",
					Variant:     "0",
					Unit:        "CS",
					Quantity:    models.NewAmount(decimal.NewFromInt(100)),
					Price:       models.NewMoney(decimal.NewFromInt(120)),
					NetAmount:   models.NewMoney(decimal.NewFromInt(12000)),
				},
			},
		},
		{
			DocNo:        "PO-000102",
			DocType:      "PO",
			CompanyCode:  "C01",
			BranchCode:   "B01",
			SupplierCode: "S001",
			Currency:     "CNY",
			MoveDate:     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			Status:       constants.DocStatusValidated,
			ValidatedAt:  &validatedAt,
			Lines: []models.PurchaseLine{
				{
					ArticleCode: "ART-1002",
					Variant:     "0",
					Unit:        "EA",
					Quantity:    models.NewAmount(decimal.NewFromInt(5000)),
					Price:       models.NewMoney(decimal.NewFromInt(3)),
					NetAmount:   models.NewMoney(decimal.NewFromInt(15000)),
				},
			},
		},
	}
	for _, doc := range purchases {
		var existing models.PurchaseDocument
		if err := models.DB.Where("doc_no = ?", doc.DocNo).First(&existing).Error; err != nil {
			if err := models.DB.Create(&doc).Error; err != nil {
				stdLog.Printf("Failed to create purchase %s: %v", doc.DocNo, err)
			} else {
				stdLog.Printf("Created purchase: %s", doc.DocNo)
			}
		} else {
			stdLog.Printf("Purchase already exists: %s", doc.DocNo)
		}
	}

	stdLog.Printf("Seed finished")
}
