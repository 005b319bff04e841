package admin

import (
	"strconv"
	"strings"

	"github.com/fanli-next/internal/http/response"
	"github.com/fanli-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ProvisionMethodRequest 预提测算方法请求
type ProvisionMethodRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name"`
	MonthsBack int    `json:"months_back"`
	YearsBack  int    `json:"years_back"`
	Factors    []struct {
		Month  int           `json:"month" binding:"required"`
		Factor models.Amount `json:"factor"`
	} `json:"factors"`
}

func (r *ProvisionMethodRequest) toModel() *models.ProvisionMethod {
	method := &models.ProvisionMethod{
		Code:       strings.TrimSpace(r.Code),
		Name:       strings.TrimSpace(r.Name),
		MonthsBack: r.MonthsBack,
		YearsBack:  r.YearsBack,
	}
	for _, f := range r.Factors {
		method.Factors = append(method.Factors, models.ProvisionFactor{
			Month:  f.Month,
			Factor: f.Factor,
		})
	}
	return method
}

func (r *ProvisionMethodRequest) validate() string {
	if r.MonthsBack < 0 || r.YearsBack < 0 {
		return "回看月数/年数不能为负"
	}
	if r.MonthsBack == 0 && r.YearsBack == 0 {
		return "回看月数与年数不能同时为 0"
	}
	for _, f := range r.Factors {
		if f.Month < 1 || f.Month > 12 {
			return "系数月份必须在 1-12 之间"
		}
	}
	return ""
}

// GetProvisionMethods 获取预提测算方法列表
func (h *Handler) GetProvisionMethods(c *gin.Context) {
	methods, err := h.ProvisionRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.Success(c, methods)
}

// CreateProvisionMethod 创建预提测算方法
func (h *Handler) CreateProvisionMethod(c *gin.Context) {
	var req ProvisionMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, response.CodeBadRequest, msg, nil)
		return
	}

	existing, err := h.ProvisionRepo.GetByCode(strings.TrimSpace(req.Code))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "方法编码已存在", nil)
		return
	}

	method := req.toModel()
	if err := h.ProvisionRepo.Create(method); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, method)
}

// UpdateProvisionMethod 更新预提测算方法
func (h *Handler) UpdateProvisionMethod(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	existing, err := h.ProvisionRepo.GetByCode(code)
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing == nil {
		respondError(c, response.CodeNotFound, "方法不存在", nil)
		return
	}

	var req ProvisionMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, response.CodeBadRequest, msg, nil)
		return
	}

	method := req.toModel()
	method.ID = existing.ID
	method.Code = existing.Code
	if err := h.ProvisionRepo.Update(method); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, method)
}

// DocumentTypeRequest 单据类型请求
type DocumentTypeRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name"`
	VolumeFlag string `json:"volume_flag"`
	Nature     string `json:"nature"`
}

// GetDocumentTypes 获取单据类型列表
func (h *Handler) GetDocumentTypes(c *gin.Context) {
	docTypes, err := h.DocTypeRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.Success(c, docTypes)
}

// CreateDocumentType 创建单据类型
func (h *Handler) CreateDocumentType(c *gin.Context) {
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	volumeFlag := strings.TrimSpace(req.VolumeFlag)
	if volumeFlag == "" {
		volumeFlag = "I"
	}
	switch volumeFlag {
	case "I", "G", "N":
	default:
		respondError(c, response.CodeBadRequest, "采购量计入标志必须为 I/G/N", nil)
		return
	}

	existing, err := h.DocTypeRepo.GetByCode(strings.TrimSpace(req.Code))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "单据类型已存在", nil)
		return
	}

	docType := &models.DocumentType{
		Code:       strings.TrimSpace(req.Code),
		Name:       strings.TrimSpace(req.Name),
		VolumeFlag: volumeFlag,
		Nature:     strings.TrimSpace(req.Nature),
	}
	if err := h.DocTypeRepo.Create(docType); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, docType)
}

// GetAdminArticles 获取商品列表
func (h *Handler) GetAdminArticles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	articles, total, err := h.ArticleRepo.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.SuccessWithPage(c, articles, buildPagination(page, pageSize, total))
}

// ArticleRequest 商品档案请求
type ArticleRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name"`
	BaseUnit       string `json:"base_unit"`
	Manufacturer   string `json:"manufacturer"`
	Classification string `json:"classification"`
	Family         string `json:"family"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
}

// CreateAdminArticle 创建商品档案
func (h *Handler) CreateAdminArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	existing, err := h.ArticleRepo.GetByCode(strings.TrimSpace(req.Code))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "商品编码已存在", nil)
		return
	}

	baseUnit := strings.TrimSpace(req.BaseUnit)
	if baseUnit == "" {
		baseUnit = "EA"
	}
	article := &models.Article{
		Code:           strings.TrimSpace(req.Code),
		Name:           strings.TrimSpace(req.Name),
		BaseUnit:       baseUnit,
		Manufacturer:   strings.TrimSpace(req.Manufacturer),
		Classification: strings.TrimSpace(req.Classification),
		Family:         strings.TrimSpace(req.Family),
		Brand:          strings.TrimSpace(req.Brand),
		Model:          strings.TrimSpace(req.Model),
	}
	if err := h.ArticleRepo.Create(article); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, article)
}

// ExchangeRateRequest 汇率请求
type ExchangeRateRequest struct {
	FromCurrency string        `json:"from_currency" binding:"required"`
	ToCurrency   string        `json:"to_currency" binding:"required"`
	ValidFrom    string        `json:"valid_from" binding:"required"`
	Rate         models.Amount `json:"rate" binding:"required"`
}

// CreateExchangeRate 创建汇率
func (h *Handler) CreateExchangeRate(c *gin.Context) {
	var req ExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	if req.Rate.Decimal.IsZero() || req.Rate.Decimal.IsNegative() {
		respondError(c, response.CodeBadRequest, "汇率必须为正数", nil)
		return
	}

	rate := &models.ExchangeRate{
		FromCurrency: strings.ToUpper(strings.TrimSpace(req.FromCurrency)),
		ToCurrency:   strings.ToUpper(strings.TrimSpace(req.ToCurrency)),
		ValidFrom:    validFrom,
		Rate:         req.Rate,
	}
	if err := h.RateRepo.Create(rate); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, rate)
}
