package settlement

import (
	"strings"

	"github.com/fanli-next/internal/models"
)

// 采购量查询中来源规则引用的列别名（d 单据头 / l 单据行 / a 商品档案）
const (
	colDocType        = "d.doc_type"
	colCompany        = "d.company_code"
	colBranch         = "d.branch_code"
	colManufacturer   = "a.manufacturer"
	colClassification = "a.classification"
	colFamily         = "a.family"
	colBrand          = "a.brand"
	colModel          = "a.model"
	colArticle        = "l.article_code"
	colVariant        = "l.variant"
)

// fieldPredicate 单列等值谓词
type fieldPredicate struct {
	column string
	value  interface{}
}

// ruleCond 一条来源规则编译前的谓词：头/商品字段的合取、商品行白名单的
// 析取，以及受信配置的自由条件。
type ruleCond struct {
	fields []fieldPredicate
	raw    string
	items  [][]fieldPredicate
}

// SourceFilter 合同采购来源过滤器。include 规则之间取并、exclude 规则
// 之间取并，整体条件为 include 并集减去 exclude 并集。
type SourceFilter struct {
	includes []ruleCond
	excludes []ruleCond
}

// BuildSourceFilter 从合同的来源规则行构建过滤器，空字段视为通配。
func BuildSourceFilter(rules []models.SourceRule) *SourceFilter {
	filter := &SourceFilter{}
	for _, rule := range rules {
		cond := ruleCond{raw: strings.TrimSpace(rule.RawCond)}
		addField := func(column, value string) {
			if value != "" {
				cond.fields = append(cond.fields, fieldPredicate{column: column, value: value})
			}
		}
		addField(colDocType, rule.DocType)
		addField(colCompany, rule.CompanyCode)
		addField(colBranch, rule.BranchCode)
		addField(colManufacturer, rule.Manufacturer)
		addField(colClassification, rule.Classification)
		addField(colFamily, rule.Family)
		addField(colBrand, rule.Brand)
		addField(colModel, rule.Model)

		for _, item := range rule.Items {
			var preds []fieldPredicate
			if item.ArticleCode != "" {
				preds = append(preds, fieldPredicate{column: colArticle, value: item.ArticleCode})
			}
			if item.Variant != "" {
				preds = append(preds, fieldPredicate{column: colVariant, value: item.Variant})
			}
			cond.items = append(cond.items, preds)
		}

		if rule.Exclude {
			filter.excludes = append(filter.excludes, cond)
		} else {
			filter.includes = append(filter.includes, cond)
		}
	}
	return filter
}

// Compile 编译为参数化 SQL 条件。值只以占位符出现，自由条件
// （raw）原样拼接，仅允许来自受信配置。
func (f *SourceFilter) Compile() (string, []interface{}) {
	var args []interface{}

	compileGroup := func(conds []ruleCond, empty string) string {
		if len(conds) == 0 {
			return empty
		}
		parts := make([]string, 0, len(conds))
		for _, cond := range conds {
			parts = append(parts, "("+compileRuleCond(cond, &args)+")")
		}
		return strings.Join(parts, " OR ")
	}

	include := compileGroup(f.includes, "1=1")
	exclude := compileGroup(f.excludes, "1=0")
	return "((" + include + ") AND NOT (" + exclude + "))", args
}

func compileRuleCond(cond ruleCond, args *[]interface{}) string {
	fieldParts := make([]string, 0, len(cond.fields)+2)
	for _, pred := range cond.fields {
		fieldParts = append(fieldParts, pred.column+" = ?")
		*args = append(*args, pred.value)
	}
	fieldCond := strings.Join(fieldParts, " AND ")
	if fieldCond == "" {
		fieldCond = "1=1"
	}
	if cond.raw != "" {
		fieldCond += " AND " + cond.raw
	}

	if len(cond.items) == 0 {
		return fieldCond + " AND (1=1)"
	}
	itemParts := make([]string, 0, len(cond.items))
	for _, preds := range cond.items {
		if len(preds) == 0 {
			itemParts = append(itemParts, "(1=1)")
			continue
		}
		sub := make([]string, 0, len(preds))
		for _, pred := range preds {
			sub = append(sub, pred.column+" = ?")
			*args = append(*args, pred.value)
		}
		itemParts = append(itemParts, "("+strings.Join(sub, " AND ")+")")
	}
	return fieldCond + " AND (" + strings.Join(itemParts, " OR ") + ")"
}
