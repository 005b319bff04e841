package settlement

import (
	"testing"

	"github.com/fanli-next/internal/models"
)

func TestSourceFilterEmptyRulesMatchesEverything(t *testing.T) {
	cond, args := BuildSourceFilter(nil).Compile()
	if cond != "((1=1) AND NOT (1=0))" {
		t.Fatalf("cond = %s", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want empty", args)
	}
}

func TestSourceFilterIncludeFieldsAndItems(t *testing.T) {
	rules := []models.SourceRule{
		{
			DocType:      "PO",
			Manufacturer: "ACME",
			Items: []models.SourceItem{
				{ArticleCode: "ART1", Variant: "0"},
				{ArticleCode: "ART2"},
			},
		},
	}
	cond, args := BuildSourceFilter(rules).Compile()

	want := "(((d.doc_type = ? AND a.manufacturer = ? AND ((l.article_code = ? AND l.variant = ?) OR (l.article_code = ?)))) AND NOT (1=0))"
	if cond != want {
		t.Fatalf("cond = %s,\nwant %s", cond, want)
	}
	wantArgs := []interface{}{"PO", "ACME", "ART1", "0", "ART2"}
	if len(args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Fatalf("args[%d] = %v, want %v", i, args[i], wantArgs[i])
		}
	}
}

func TestSourceFilterExcludeGroup(t *testing.T) {
	rules := []models.SourceRule{
		{Brand: "GOOD"},
		{Exclude: true, Family: "FROZEN"},
	}
	cond, args := BuildSourceFilter(rules).Compile()

	want := "(((a.brand = ? AND (1=1))) AND NOT ((a.family = ? AND (1=1))))"
	if cond != want {
		t.Fatalf("cond = %s,\nwant %s", cond, want)
	}
	if len(args) != 2 || args[0] != "GOOD" || args[1] != "FROZEN" {
		t.Fatalf("args = %v", args)
	}
}

func TestSourceFilterMultipleIncludesUnion(t *testing.T) {
	rules := []models.SourceRule{
		{CompanyCode: "C1"},
		{CompanyCode: "C2"},
	}
	cond, _ := BuildSourceFilter(rules).Compile()

	want := "(((d.company_code = ? AND (1=1)) OR (d.company_code = ? AND (1=1))) AND NOT (1=0))"
	if cond != want {
		t.Fatalf("cond = %s,\nwant %s", cond, want)
	}
}

func TestSourceFilterRawCondition(t *testing.T) {
	rules := []models.SourceRule{
		{DocType: "PO", RawCond: "d.branch_code <> 'B9'"},
	}
	cond, args := BuildSourceFilter(rules).Compile()

	want := "(((d.doc_type = ? AND d.branch_code <> 'B9' AND (1=1))) AND NOT (1=0))"
	if cond != want {
		t.Fatalf("cond = %s,\nwant %s", cond, want)
	}
	if len(args) != 1 || args[0] != "PO" {
		t.Fatalf("args = %v", args)
	}
}
