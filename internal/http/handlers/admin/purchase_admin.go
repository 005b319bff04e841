package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/http/response"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// PurchaseLineRequest 采购单据行请求
type PurchaseLineRequest struct {
	ArticleCode string        `json:"article_code" binding:"required"`
	Variant     string        `json:"variant"`
	Unit        string        `json:"unit"`
	Quantity    models.Amount `json:"quantity"`
	Price       models.Money  `json:"price"`
	NetAmount   models.Money  `json:"net_amount"`
}

// PurchaseRequest 录入采购单据请求
type PurchaseRequest struct {
	DocNo              string                `json:"doc_no" binding:"required"`
	DocType            string                `json:"doc_type" binding:"required"`
	CompanyCode        string                `json:"company_code" binding:"required"`
	BranchCode         string                `json:"branch_code"`
	SupplierCode       string                `json:"supplier_code" binding:"required"`
	Currency           string                `json:"currency" binding:"required"`
	MoveDate           string                `json:"move_date" binding:"required"`
	Comment            string                `json:"comment"`
	GeneralDiscountPct models.Amount         `json:"general_discount_pct"`
	Lines              []PurchaseLineRequest `json:"lines" binding:"required"`
}

// GetAdminPurchases 获取采购单据列表
func (h *Handler) GetAdminPurchases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	moveFrom, err := parseDateNullable(strings.TrimSpace(c.Query("move_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	moveTo, err := parseDateNullable(strings.TrimSpace(c.Query("move_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}

	docs, total, err := h.PurchaseRepo.List(repository.PurchaseListFilter{
		Page:         page,
		PageSize:     pageSize,
		DocType:      strings.TrimSpace(c.Query("doc_type")),
		SupplierCode: strings.TrimSpace(c.Query("supplier_code")),
		Status:       strings.TrimSpace(c.Query("status")),
		DocNo:        strings.TrimSpace(c.Query("doc_no")),
		MoveFrom:     moveFrom,
		MoveTo:       moveTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.SuccessWithPage(c, docs, buildPagination(page, pageSize, total))
}

// GetAdminPurchase 获取采购单据详情
func (h *Handler) GetAdminPurchase(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "单据 ID 无效", nil)
		return
	}

	doc, err := h.PurchaseRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if doc == nil {
		respondError(c, response.CodeNotFound, "单据不存在", nil)
		return
	}
	response.Success(c, doc)
}

// CreateAdminPurchase 录入采购单据（草稿）
func (h *Handler) CreateAdminPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if len(req.Lines) == 0 {
		respondError(c, response.CodeBadRequest, "单据至少包含一行", nil)
		return
	}
	moveDate, err := parseDate(req.MoveDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}

	docType, err := h.DocTypeRepo.GetByCode(strings.TrimSpace(req.DocType))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if docType == nil {
		respondError(c, response.CodeBadRequest, "单据类型不存在", nil)
		return
	}

	existing, err := h.PurchaseRepo.GetByDocNo(strings.TrimSpace(req.DocNo))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "单据编号已存在", nil)
		return
	}

	doc := &models.PurchaseDocument{
		DocNo:              strings.TrimSpace(req.DocNo),
		DocType:            docType.Code,
		CompanyCode:        strings.TrimSpace(req.CompanyCode),
		BranchCode:         strings.TrimSpace(req.BranchCode),
		SupplierCode:       strings.TrimSpace(req.SupplierCode),
		Currency:           strings.ToUpper(strings.TrimSpace(req.Currency)),
		MoveDate:           moveDate,
		Status:             constants.DocStatusDraft,
		Comment:            strings.TrimSpace(req.Comment),
		GeneralDiscountPct: req.GeneralDiscountPct,
	}
	for _, line := range req.Lines {
		variant := strings.TrimSpace(line.Variant)
		if variant == "" {
			variant = "0"
		}
		doc.Lines = append(doc.Lines, models.PurchaseLine{
			ArticleCode: strings.TrimSpace(line.ArticleCode),
			Variant:     variant,
			Unit:        strings.TrimSpace(line.Unit),
			Quantity:    line.Quantity,
			Price:       line.Price,
			NetAmount:   line.NetAmount,
		})
	}

	if err := h.PurchaseRepo.Create(doc); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, doc)
}

// ValidateAdminPurchase 过账采购单据
func (h *Handler) ValidateAdminPurchase(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "单据 ID 无效", nil)
		return
	}

	doc, err := h.PurchaseRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if doc == nil {
		respondError(c, response.CodeNotFound, "单据不存在", nil)
		return
	}
	if doc.Status == constants.DocStatusValidated {
		respondError(c, response.CodeBadRequest, "单据已过账", nil)
		return
	}

	if err := h.PurchaseRepo.Validate(doc.ID, time.Now()); err != nil {
		respondError(c, response.CodeInternal, "过账失败", err)
		return
	}
	doc.Status = constants.DocStatusValidated
	response.Success(c, doc)
}
