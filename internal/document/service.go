package document

import (
	"fmt"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/shopspring/decimal"
)

// Header 待生成单据的头部数据
type Header struct {
	DocType      string
	CompanyCode  string
	BranchCode   string
	SupplierCode string
	AddressType  string
	Currency     string
	PartnerRef   string // 合同编号
	Comment      string
	MoveDate     time.Time
}

// Line 待生成单据的行数据。计量单位由服务按商品基础单位解析。
type Line struct {
	ArticleCode string
	Variant     string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	ContractID  uint // 非零时回填到行上（返利行）
}

// Service 入账单据服务：编号、行计量单位解析、过账与冲销复制。
type Service struct {
	purchases repository.PurchaseRepository
	docTypes  repository.DocumentTypeRepository
	articles  repository.ArticleRepository
}

// NewService 创建单据服务
func NewService(purchases repository.PurchaseRepository, docTypes repository.DocumentTypeRepository,
	articles repository.ArticleRepository) *Service {
	return &Service{purchases: purchases, docTypes: docTypes, articles: articles}
}

// Generate 生成并过账一张单据，返回含行 ID 的完整单据。
func (s *Service) Generate(h Header, lines []Line) (*models.PurchaseDocument, error) {
	docType, err := s.docTypes.GetByCode(h.DocType)
	if err != nil {
		return nil, fmt.Errorf("resolve document type: %w", err)
	}
	if docType == nil {
		return nil, fmt.Errorf("document type %s not found", h.DocType)
	}

	docNo, err := s.nextDocNo(h.DocType)
	if err != nil {
		return nil, err
	}

	doc := &models.PurchaseDocument{
		DocNo:        docNo,
		DocType:      h.DocType,
		CompanyCode:  h.CompanyCode,
		BranchCode:   h.BranchCode,
		SupplierCode: h.SupplierCode,
		AddressType:  h.AddressType,
		Currency:     h.Currency,
		MoveDate:     h.MoveDate,
		Status:       constants.DocStatusDraft,
		PartnerRef:   h.PartnerRef,
		Comment:      h.Comment,
	}

	for _, line := range lines {
		unit, err := s.resolveUnit(line.ArticleCode)
		if err != nil {
			return nil, err
		}
		variant := line.Variant
		if variant == "" {
			variant = "0"
		}
		modelLine := models.PurchaseLine{
			ArticleCode: line.ArticleCode,
			Variant:     variant,
			Unit:        unit,
			Quantity:    models.NewAmount(line.Quantity),
			Price:       models.NewMoney(line.Price),
			NetAmount:   models.NewMoney(decimal.Zero),
		}
		if line.ContractID != 0 {
			contractID := line.ContractID
			modelLine.RebateContractID = &contractID
		}
		doc.Lines = append(doc.Lines, modelLine)
	}

	if err := s.purchases.Create(doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if err := s.validate(doc); err != nil {
		return nil, err
	}

	logger.Infow("document_generated",
		"doc_no", doc.DocNo, "doc_type", doc.DocType, "supplier", doc.SupplierCode, "lines", len(doc.Lines))
	return doc, nil
}

// CancelCopy 为冲销生成反向单据：复制返利行并取反数量，引用原单据。
// 原单据没有可冲销的行（例如零额占位单）时不生成，返回 nil。
func (s *Service) CancelCopy(orig *models.PurchaseDocument, contractID uint, moveDate time.Time) (*models.PurchaseDocument, error) {
	var lines []models.PurchaseLine
	for _, line := range orig.Lines {
		if line.RebateContractID == nil || *line.RebateContractID != contractID {
			continue
		}
		if !line.Quantity.Decimal.IsPositive() {
			continue
		}
		ref := contractID
		lines = append(lines, models.PurchaseLine{
			ArticleCode:      line.ArticleCode,
			Variant:          line.Variant,
			Unit:             line.Unit,
			Quantity:         models.NewAmount(line.Quantity.Decimal.Neg()),
			Price:            line.Price,
			NetAmount:        models.NewMoney(decimal.Zero),
			RebateContractID: &ref,
		})
	}
	if len(lines) == 0 {
		return nil, nil
	}

	docNo, err := s.nextDocNo(orig.DocType)
	if err != nil {
		return nil, err
	}

	doc := &models.PurchaseDocument{
		DocNo:        docNo,
		DocType:      orig.DocType,
		CompanyCode:  orig.CompanyCode,
		BranchCode:   orig.BranchCode,
		SupplierCode: orig.SupplierCode,
		AddressType:  orig.AddressType,
		Currency:     orig.Currency,
		MoveDate:     moveDate,
		Status:       constants.DocStatusDraft,
		PartnerRef:   orig.PartnerRef,
		Comment:      fmt.Sprintf("CANCEL: [%s] G: %s", orig.PartnerRef, orig.MoveDate.Format("2006-01-02")),
		CancelOfID:   &orig.ID,
		Lines:        lines,
	}
	if err := s.purchases.Create(doc); err != nil {
		return nil, fmt.Errorf("create cancel document: %w", err)
	}
	if err := s.validate(doc); err != nil {
		return nil, err
	}

	logger.Infow("document_cancelled",
		"doc_no", doc.DocNo, "cancel_of", orig.DocNo, "supplier", doc.SupplierCode)
	return doc, nil
}

func (s *Service) nextDocNo(docType string) (string, error) {
	count, err := s.purchases.CountByType(docType)
	if err != nil {
		return "", fmt.Errorf("count documents: %w", err)
	}
	return fmt.Sprintf("%s-%06d", docType, count+1), nil
}

// resolveUnit 行计量单位取商品基础单位，商品缺档案时回退 EA。
func (s *Service) resolveUnit(articleCode string) (string, error) {
	article, err := s.articles.GetByCode(articleCode)
	if err != nil {
		return "", fmt.Errorf("resolve article %s: %w", articleCode, err)
	}
	if article == nil || article.BaseUnit == "" {
		return "EA", nil
	}
	return article.BaseUnit, nil
}

func (s *Service) validate(doc *models.PurchaseDocument) error {
	now := time.Now()
	if err := s.purchases.Validate(doc.ID, now); err != nil {
		return fmt.Errorf("validate document %s: %w", doc.DocNo, err)
	}
	doc.Status = constants.DocStatusValidated
	doc.ValidatedAt = &now
	return nil
}
