package admin

import (
	"strconv"
	"strings"

	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/http/response"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ContractSupplierRequest 合同供应商
type ContractSupplierRequest struct {
	SupplierCode string `json:"supplier_code" binding:"required"`
	Settles      *bool  `json:"settles"`
}

// ScaleBracketRequest 返利阶梯
type ScaleBracketRequest struct {
	FromValue     models.Amount `json:"from_value"`
	ToValue       models.Amount `json:"to_value"`
	Value         models.Amount `json:"value"`
	CalcBasis     int           `json:"calc_basis"`
	Formula       int           `json:"formula"`
	Expected      bool          `json:"expected"`
	RewardArticle string        `json:"reward_article"`
	RewardVariant string        `json:"reward_variant"`
}

// SourceRuleRequest 采购来源规则
type SourceRuleRequest struct {
	Exclude        bool   `json:"exclude"`
	DocType        string `json:"doc_type"`
	CompanyCode    string `json:"company_code"`
	BranchCode     string `json:"branch_code"`
	Manufacturer   string `json:"manufacturer"`
	Classification string `json:"classification"`
	Family         string `json:"family"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Items          []struct {
		ArticleCode string `json:"article_code"`
		Variant     string `json:"variant"`
	} `json:"items"`
}

// ContractRequest 创建/更新合同请求
type ContractRequest struct {
	ContractNo          string                    `json:"contract_no" binding:"required"`
	CompanyCode         string                    `json:"company_code" binding:"required"`
	SupplierCode        string                    `json:"supplier_code" binding:"required"`
	Currency            string                    `json:"currency" binding:"required"`
	StartDate           string                    `json:"start_date" binding:"required"`
	EndDate             string                    `json:"end_date" binding:"required"`
	Status              string                    `json:"status"`
	CalendarAligned     bool                      `json:"calendar_aligned"`
	PeriodLength        int                       `json:"period_length"`
	ComparisonBasis     int                       `json:"comparison_basis"`
	AllRange            *bool                     `json:"all_range"`
	ProvisionMethodCode string                    `json:"provision_method_code"`
	RewardArticle       string                    `json:"reward_article"`
	RewardVariant       string                    `json:"reward_variant"`
	SettleDocType       string                    `json:"settle_doc_type" binding:"required"`
	ProvisionDocType    string                    `json:"provision_doc_type" binding:"required"`
	Suppliers           []ContractSupplierRequest `json:"suppliers"`
	Brackets            []ScaleBracketRequest     `json:"brackets"`
	SourceRules         []SourceRuleRequest       `json:"source_rules"`
}

func (r *ContractRequest) toModel() (*models.RebateContract, error) {
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = constants.ContractStatusActive
	}
	allRange := true
	if r.AllRange != nil {
		allRange = *r.AllRange
	}

	contract := &models.RebateContract{
		ContractNo:          strings.TrimSpace(r.ContractNo),
		CompanyCode:         strings.TrimSpace(r.CompanyCode),
		SupplierCode:        strings.TrimSpace(r.SupplierCode),
		Currency:            strings.ToUpper(strings.TrimSpace(r.Currency)),
		StartDate:           startDate,
		EndDate:             endDate,
		Status:              status,
		CalendarAligned:     r.CalendarAligned,
		PeriodLength:        constants.PeriodLength(r.PeriodLength),
		ComparisonBasis:     constants.Basis(r.ComparisonBasis),
		AllRange:            allRange,
		ProvisionMethodCode: strings.TrimSpace(r.ProvisionMethodCode),
		RewardArticle:       strings.TrimSpace(r.RewardArticle),
		RewardVariant:       strings.TrimSpace(r.RewardVariant),
		SettleDocType:       strings.TrimSpace(r.SettleDocType),
		ProvisionDocType:    strings.TrimSpace(r.ProvisionDocType),
	}

	for _, s := range r.Suppliers {
		settles := true
		if s.Settles != nil {
			settles = *s.Settles
		}
		contract.Suppliers = append(contract.Suppliers, models.ContractSupplier{
			SupplierCode: strings.TrimSpace(s.SupplierCode),
			Settles:      settles,
		})
	}
	contract.Brackets = bracketsFromRequest(r.Brackets)
	for _, rule := range r.SourceRules {
		m := models.SourceRule{
			Exclude:        rule.Exclude,
			DocType:        rule.DocType,
			CompanyCode:    rule.CompanyCode,
			BranchCode:     rule.BranchCode,
			Manufacturer:   rule.Manufacturer,
			Classification: rule.Classification,
			Family:         rule.Family,
			Brand:          rule.Brand,
			Model:          rule.Model,
		}
		for _, item := range rule.Items {
			m.Items = append(m.Items, models.SourceItem{
				ArticleCode: item.ArticleCode,
				Variant:     item.Variant,
			})
		}
		contract.SourceRules = append(contract.SourceRules, m)
	}
	return contract, nil
}

func bracketsFromRequest(reqs []ScaleBracketRequest) []models.ScaleBracket {
	brackets := make([]models.ScaleBracket, 0, len(reqs))
	for _, b := range reqs {
		brackets = append(brackets, models.ScaleBracket{
			FromValue:     b.FromValue,
			ToValue:       b.ToValue,
			Value:         b.Value,
			CalcBasis:     constants.Basis(b.CalcBasis),
			Formula:       constants.Formula(b.Formula),
			Expected:      b.Expected,
			RewardArticle: strings.TrimSpace(b.RewardArticle),
			RewardVariant: strings.TrimSpace(b.RewardVariant),
		})
	}
	return brackets
}

// GetAdminContracts 获取合同列表
func (h *Handler) GetAdminContracts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	contracts, total, err := h.ContractRepo.List(repository.ContractListFilter{
		Page:         page,
		PageSize:     pageSize,
		Status:       strings.TrimSpace(c.Query("status")),
		SupplierCode: strings.TrimSpace(c.Query("supplier_code")),
		Search:       strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	response.SuccessWithPage(c, contracts, buildPagination(page, pageSize, total))
}

// GetAdminContract 获取合同详情
func (h *Handler) GetAdminContract(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "合同 ID 无效", nil)
		return
	}

	contract, err := h.ContractRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if contract == nil {
		respondError(c, response.CodeNotFound, "合同不存在", nil)
		return
	}
	response.Success(c, contract)
}

// CreateAdminContract 创建合同
func (h *Handler) CreateAdminContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	existing, err := h.ContractRepo.GetByContractNo(strings.TrimSpace(req.ContractNo))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "合同编号已存在", nil)
		return
	}

	contract, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	if !contract.PeriodLength.Valid() {
		respondError(c, response.CodeBadRequest, "期间长度编码无效", nil)
		return
	}
	if !contract.EndDate.After(contract.StartDate) {
		respondError(c, response.CodeBadRequest, "结束日必须晚于开始日", nil)
		return
	}

	if err := h.ContractRepo.Create(contract); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, contract)
}

// UpdateAdminContract 更新合同
func (h *Handler) UpdateAdminContract(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "合同 ID 无效", nil)
		return
	}

	existing, err := h.ContractRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if existing == nil {
		respondError(c, response.CodeNotFound, "合同不存在", nil)
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	contract, err := req.toModel()
	if err != nil {
		respondError(c, response.CodeBadRequest, "日期格式错误", err)
		return
	}
	if !contract.PeriodLength.Valid() {
		respondError(c, response.CodeBadRequest, "期间长度编码无效", nil)
		return
	}

	// 已处理过的合同不允许更换期间口径，避免期间序列断裂
	if existing.LastProcessed != nil &&
		(contract.PeriodLength != existing.PeriodLength || contract.CalendarAligned != existing.CalendarAligned) {
		respondError(c, response.CodeBadRequest, "已结算合同不允许修改期间口径", nil)
		return
	}

	contract.ID = existing.ID
	contract.LastProcessed = existing.LastProcessed
	// 嵌套集合不在此接口维护，避免误覆盖
	contract.Suppliers = nil
	contract.Brackets = nil
	contract.SourceRules = nil

	if err := h.ContractRepo.Update(contract); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, contract)
}

// ReplaceScalesRequest 整体替换阶梯请求
type ReplaceScalesRequest struct {
	Brackets []ScaleBracketRequest `json:"brackets" binding:"required"`
}

// ReplaceContractScales 整体替换合同阶梯
func (h *Handler) ReplaceContractScales(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "合同 ID 无效", nil)
		return
	}

	contract, err := h.ContractRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "查询失败", err)
		return
	}
	if contract == nil {
		respondError(c, response.CodeNotFound, "合同不存在", nil)
		return
	}

	var req ReplaceScalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	brackets := bracketsFromRequest(req.Brackets)
	for i := range brackets {
		brackets[i].ContractID = contract.ID
	}
	if err := h.ScaleRepo.ReplaceForContract(contract.ID, brackets); err != nil {
		respondError(c, response.CodeInternal, "保存失败", err)
		return
	}
	response.Success(c, brackets)
}
