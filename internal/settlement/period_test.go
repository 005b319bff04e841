package settlement

import (
	"testing"
	"time"

	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPendingSubperiodsCoversWholePeriod(t *testing.T) {
	// 季度合同无处理历史：3 个子期间连续覆盖整个期间，仅末个是结算
	subs := PendingSubperiods(date(2026, time.January, 1), nil, true, 3)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subperiods, got %d", len(subs))
	}

	wantEnds := []time.Time{
		date(2026, time.January, 31),
		date(2026, time.February, 28),
		date(2026, time.March, 31),
	}
	for i, sub := range subs {
		if !sub.End.Equal(wantEnds[i]) {
			t.Fatalf("subperiod %d end = %v, want %v", i, sub.End, wantEnds[i])
		}
		if sub.Ordinal != i+1 {
			t.Fatalf("subperiod %d ordinal = %d, want %d", i, sub.Ordinal, i+1)
		}
		wantSettlement := i == 2
		if sub.Settlement != wantSettlement {
			t.Fatalf("subperiod %d settlement = %v, want %v", i, sub.Settlement, wantSettlement)
		}
		if !sub.PeriodStart.Equal(date(2026, time.January, 1)) || !sub.PeriodEnd.Equal(date(2026, time.March, 31)) {
			t.Fatalf("subperiod %d period bounds = %v..%v", i, sub.PeriodStart, sub.PeriodEnd)
		}
	}
}

func TestPendingSubperiodsDropsProcessedAndRenumbers(t *testing.T) {
	last := date(2026, time.January, 31)
	subs := PendingSubperiods(date(2026, time.January, 1), &last, true, 3)
	if len(subs) != 2 {
		t.Fatalf("expected 2 pending subperiods, got %d", len(subs))
	}
	if !subs[0].End.Equal(date(2026, time.February, 28)) {
		t.Fatalf("first pending end = %v, want 2026-02-28", subs[0].End)
	}
	if subs[0].Ordinal != 1 {
		t.Fatalf("first pending ordinal = %d, want 1", subs[0].Ordinal)
	}
	if subs[0].Settlement {
		t.Fatalf("february slice must be a provision point")
	}
	if !subs[1].Settlement || subs[1].Ordinal != 2 {
		t.Fatalf("march slice = %+v, want settlement ordinal 2", subs[1])
	}
}

func TestPendingSubperiodsAdvancesToNextPeriod(t *testing.T) {
	// 月度合同：1 月结算完成后，下一个待处理子期间是 2 月
	last := date(2026, time.January, 31)
	subs := PendingSubperiods(date(2026, time.January, 1), &last, true, 1)
	if len(subs) != 1 {
		t.Fatalf("expected 1 subperiod, got %d", len(subs))
	}
	if !subs[0].End.Equal(date(2026, time.February, 28)) {
		t.Fatalf("next subperiod end = %v, want 2026-02-28", subs[0].End)
	}
	if !subs[0].Settlement {
		t.Fatalf("monthly subperiod must always be a settlement point")
	}
	if !subs[0].PeriodStart.Equal(date(2026, time.February, 1)) {
		t.Fatalf("period start = %v, want 2026-02-01", subs[0].PeriodStart)
	}
}

func TestPendingSubperiodsFirstPeriodKeepsContractStart(t *testing.T) {
	// 自然期间合同月中开始：期间对齐到月初，但首期间归集起点保留原始开始日
	subs := PendingSubperiods(date(2026, time.January, 15), nil, true, 3)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subperiods, got %d", len(subs))
	}
	if !subs[0].PeriodStart.Equal(date(2026, time.January, 15)) {
		t.Fatalf("first period start = %v, want contract start 2026-01-15", subs[0].PeriodStart)
	}
	if !subs[2].End.Equal(date(2026, time.March, 31)) {
		t.Fatalf("settlement end = %v, want 2026-03-31", subs[2].End)
	}
}

func TestPendingSubperiodsRollingContract(t *testing.T) {
	// 非自然期间：子期间结束日随合同开始日的日号滚动
	subs := PendingSubperiods(date(2026, time.January, 15), nil, false, 3)
	wantEnds := []time.Time{
		date(2026, time.February, 14),
		date(2026, time.March, 14),
		date(2026, time.April, 14),
	}
	for i, sub := range subs {
		if !sub.End.Equal(wantEnds[i]) {
			t.Fatalf("subperiod %d end = %v, want %v", i, sub.End, wantEnds[i])
		}
	}
}

func TestPendingSubperiodsMonthEndRollingContractAdvances(t *testing.T) {
	// 月末开始的非自然期间合同：子期间结束日被钳到短月（1 月 31 日开始
	// → 首个结束日 2 月 27 日），逐月处理后期间必须持续前进而不是卡死
	start := date(2026, time.January, 31)
	wantEnds := []time.Time{
		date(2026, time.February, 27),
		date(2026, time.March, 30),
		date(2026, time.April, 29),
		date(2026, time.May, 30),
		date(2026, time.June, 29),
		date(2026, time.July, 30),
		date(2026, time.August, 30),
		date(2026, time.September, 29),
		date(2026, time.October, 30),
		date(2026, time.November, 29),
		date(2026, time.December, 30),
		date(2027, time.January, 30),
	}

	var last *time.Time
	for i, wantEnd := range wantEnds {
		subs := PendingSubperiods(start, last, false, 1)
		if len(subs) != 1 {
			t.Fatalf("iteration %d: expected 1 pending subperiod, got %d", i, len(subs))
		}
		if !subs[0].End.Equal(wantEnd) {
			t.Fatalf("iteration %d: end = %v, want %v", i, subs[0].End, wantEnd)
		}
		if subs[0].Ordinal != 1 {
			t.Fatalf("iteration %d: ordinal = %d, want 1", i, subs[0].Ordinal)
		}
		if last != nil && !subs[0].PeriodStart.Equal(last.AddDate(0, 0, 1)) {
			t.Fatalf("iteration %d: period start = %v, want day after %v", i, subs[0].PeriodStart, *last)
		}
		end := subs[0].End
		last = &end
	}
}

func TestMonthsBetweenClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		a, b time.Time
		want int
	}{
		{date(2026, time.January, 31), date(2026, time.February, 28), 1},
		{date(2026, time.January, 31), date(2026, time.February, 27), 0},
		{date(2026, time.January, 31), date(2026, time.April, 30), 3},
		{date(2026, time.January, 15), date(2026, time.February, 14), 0},
		{date(2026, time.January, 15), date(2026, time.February, 15), 1},
		{date(2026, time.March, 31), date(2026, time.February, 28), -1},
		{date(2024, time.January, 31), date(2024, time.February, 29), 1},
	}
	for _, tc := range cases {
		if got := monthsBetween(tc.a, tc.b); got != tc.want {
			t.Fatalf("monthsBetween(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPastSubperiodsAppliesMonthlyFactors(t *testing.T) {
	method := &models.ProvisionMethod{
		Code:       "PRV12",
		MonthsBack: 12,
		Factors: []models.ProvisionFactor{
			{Month: 3, Factor: models.NewAmount(decimal.RequireFromString("1.25"))},
		},
	}

	// 季度 Q1 的首个预提点（1 月 31 日处理），还缺 2 个月补齐期间
	ranges := PastSubperiods(date(2026, time.January, 31), 2, method)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 past ranges, got %d", len(ranges))
	}

	if !ranges[0].Start.Equal(date(2025, time.February, 1)) || !ranges[0].End.Equal(date(2025, time.February, 28)) {
		t.Fatalf("first range = %v..%v, want 2025-02-01..2025-02-28", ranges[0].Start, ranges[0].End)
	}
	if !ranges[0].Factor.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("february factor = %s, want default 1", ranges[0].Factor)
	}
	if !ranges[1].Factor.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("march factor = %s, want 1.25", ranges[1].Factor)
	}
}

func TestAddMonthsClampedMonthEnd(t *testing.T) {
	got := addMonthsClamped(date(2026, time.January, 31), 1)
	if !got.Equal(date(2026, time.February, 28)) {
		t.Fatalf("jan 31 + 1 month = %v, want 2026-02-28", got)
	}
	got = addMonthsClamped(date(2026, time.March, 31), -1)
	if !got.Equal(date(2026, time.February, 28)) {
		t.Fatalf("mar 31 - 1 month = %v, want 2026-02-28", got)
	}
	got = addMonthsClamped(date(2026, time.January, 15), -2)
	if !got.Equal(date(2025, time.November, 15)) {
		t.Fatalf("jan 15 - 2 months = %v, want 2025-11-15", got)
	}
}
