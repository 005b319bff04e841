package repository

import (
	"errors"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VolumeLine 采购量归集的行级投影（单据币种、交易单位，尚未折算）
type VolumeLine struct {
	CompanyCode        string
	BranchCode         string
	SupplierCode       string
	Currency           string
	MoveDate           time.Time
	VolumeFlag         string
	ArticleCode        string
	BaseUnit           string
	Unit               string
	Quantity           decimal.Decimal
	Price              decimal.Decimal
	NetAmount          decimal.Decimal
	GeneralDiscountPct decimal.Decimal
}

// VolumeQuery 采购量归集的查询条件
type VolumeQuery struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Suppliers   []string
	AddressType string
	SourceCond  string // 来源规则生成的附加条件
	SourceArgs  []interface{}
}

// PurchaseRepository 采购单据数据访问接口
type PurchaseRepository interface {
	Create(doc *models.PurchaseDocument) error
	GetByID(id uint) (*models.PurchaseDocument, error)
	GetByDocNo(docNo string) (*models.PurchaseDocument, error)
	List(filter PurchaseListFilter) ([]models.PurchaseDocument, int64, error)
	CountByType(docType string) (int64, error)
	Validate(id uint, at time.Time) error
	VolumeLines(q VolumeQuery) ([]VolumeLine, error)
	FindGeneratedDoc(partnerRef, docType string, from, to time.Time) (*models.PurchaseDocument, error)
	WithTx(tx *gorm.DB) *GormPurchaseRepository
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建采购单据仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) *GormPurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Create 创建单据及其行
func (r *GormPurchaseRepository) Create(doc *models.PurchaseDocument) error {
	return r.db.Create(doc).Error
}

// GetByID 根据 ID 获取单据（含行）
func (r *GormPurchaseRepository) GetByID(id uint) (*models.PurchaseDocument, error) {
	var doc models.PurchaseDocument
	if err := r.db.Preload("Lines").First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// GetByDocNo 根据单据号获取单据
func (r *GormPurchaseRepository) GetByDocNo(docNo string) (*models.PurchaseDocument, error) {
	var doc models.PurchaseDocument
	err := r.db.Preload("Lines").Where("doc_no = ?", docNo).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// List 分页查询单据列表
func (r *GormPurchaseRepository) List(filter PurchaseListFilter) ([]models.PurchaseDocument, int64, error) {
	query := r.db.Model(&models.PurchaseDocument{})
	if filter.DocType != "" {
		query = query.Where("doc_type = ?", filter.DocType)
	}
	if filter.SupplierCode != "" {
		query = query.Where("supplier_code = ?", filter.SupplierCode)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DocNo != "" {
		query = query.Where("doc_no "+likeOperator(r.db)+" ?", "%"+filter.DocNo+"%")
	}
	if filter.MoveFrom != nil {
		query = query.Where("move_date >= ?", *filter.MoveFrom)
	}
	if filter.MoveTo != nil {
		query = query.Where("move_date <= ?", *filter.MoveTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	docs := make([]models.PurchaseDocument, 0)
	err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// CountByType 统计某类型的单据数量（用于生成单据号）
func (r *GormPurchaseRepository) CountByType(docType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PurchaseDocument{}).Unscoped().
		Where("doc_type = ?", docType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Validate 将单据置为已过账
func (r *GormPurchaseRepository) Validate(id uint, at time.Time) error {
	return r.db.Model(&models.PurchaseDocument{}).
		Where("id = ? AND status = ?", id, constants.DocStatusDraft).
		Updates(map[string]interface{}{
			"status":       constants.DocStatusValidated,
			"validated_at": at,
		}).Error
}

// VolumeLines 拉取期间内计入采购量的单据行，按公司/分支/供应商排序供分组折叠。
// 排除：草稿单据、不计量类型（N）、返利引擎自产单据（nature R）。
func (r *GormPurchaseRepository) VolumeLines(q VolumeQuery) ([]VolumeLine, error) {
	query := r.db.Table("purchase_lines AS l").
		Select(`d.company_code, d.branch_code, d.supplier_code, d.currency, d.move_date,
			t.volume_flag, l.article_code, a.base_unit, l.unit, l.quantity, l.price,
			l.net_amount, d.general_discount_pct`).
		Joins("JOIN purchase_documents d ON d.id = l.document_id").
		Joins("JOIN document_types t ON t.code = d.doc_type").
		Joins("LEFT JOIN articles a ON a.code = l.article_code").
		Where("d.deleted_at IS NULL").
		Where("d.status = ?", constants.DocStatusValidated).
		Where("d.move_date >= ? AND d.move_date <= ?", q.PeriodStart, q.PeriodEnd).
		Where("t.volume_flag <> ?", constants.VolumeFlagExclude).
		Where("COALESCE(t.nature, '') <> ?", constants.DocNatureRebate)
	if len(q.Suppliers) > 0 {
		query = query.Where("d.supplier_code IN ?", q.Suppliers)
	}
	if q.AddressType != "" {
		query = query.Where("d.address_type = ?", q.AddressType)
	}
	if q.SourceCond != "" {
		query = query.Where(q.SourceCond, q.SourceArgs...)
	}

	lines := make([]VolumeLine, 0)
	err := query.Order("d.company_code ASC, d.branch_code ASC, d.supplier_code ASC, l.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindGeneratedDoc 查找引擎为某合同在指定日期窗口内生成的最新正向单据
// （用于预提冲销，窗口一般是上一个月）。
func (r *GormPurchaseRepository) FindGeneratedDoc(partnerRef, docType string, from, to time.Time) (*models.PurchaseDocument, error) {
	var doc models.PurchaseDocument
	err := r.db.Preload("Lines").
		Where("partner_ref = ? AND doc_type = ?", partnerRef, docType).
		Where("move_date >= ? AND move_date <= ?", from, to).
		Where("cancel_of_id IS NULL").
		Order("id DESC").
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}
