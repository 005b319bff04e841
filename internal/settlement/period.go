package settlement

import (
	"time"

	"github.com/fanli-next/internal/models"

	"github.com/shopspring/decimal"
)

// Subperiod 当前期间内一个月粒度的切片。期间内各切片连续不重叠，
// 最后一个是结算点，其余为预提点。
type Subperiod struct {
	PeriodStart time.Time // 所属期间开始（首期间为合同原始开始日）
	PeriodEnd   time.Time // 所属期间结束
	End         time.Time // 子期间结束日（处理日期须与之相等）
	Settlement  bool      // true: 结算 false: 预提
	Ordinal     int       // 待处理序号，1 为下一个应处理的子期间
}

// WeightedRange 采购量归集的加权日期区间
type WeightedRange struct {
	Start  time.Time
	End    time.Time
	Factor decimal.Decimal
}

// PendingSubperiods 计算合同当前期间内尚未处理的子期间，按结束日升序。
//
// 自然期间的合同把生效开始日归一到开始月的 1 号（仅影响期间对齐，
// 首期间的归集起点仍是合同原始开始日）。已处理过的子期间被剔除，
// 剔除后重新编号，序号 1 恒为下一个应处理的子期间。
func PendingSubperiods(contractStart time.Time, lastProcessed *time.Time, calendarAligned bool, periodMonths int) []Subperiod {
	if periodMonths <= 0 {
		return nil
	}

	effectiveStart := contractStart
	if calendarAligned {
		effectiveStart = time.Date(contractStart.Year(), contractStart.Month(), 1, 0, 0, 0, 0, contractStart.Location())
	}

	// 无历史处理时以合同开始日为锚点，否则以最近处理日的次日为锚点
	anchor := effectiveStart
	if lastProcessed != nil {
		anchor = lastProcessed.AddDate(0, 0, 1)
	}

	elapsed := monthsBetween(effectiveStart, anchor)
	monthsToStart := elapsed / periodMonths * periodMonths

	periodStart := addMonthsClamped(effectiveStart, monthsToStart)
	periodEnd := addMonthsClamped(effectiveStart, monthsToStart+periodMonths).AddDate(0, 0, -1)

	// 首期间的归集起点回到合同原始开始日
	if monthsToStart == 0 {
		periodStart = contractStart
	}

	subperiods := make([]Subperiod, 0, periodMonths)
	ordinal := 1
	for i := 0; i < periodMonths; i++ {
		end := addMonthsClamped(effectiveStart, monthsToStart+i+1).AddDate(0, 0, -1)
		if lastProcessed != nil && !end.After(*lastProcessed) {
			continue
		}
		subperiods = append(subperiods, Subperiod{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			End:         end,
			Settlement:  i+1 == periodMonths,
			Ordinal:     ordinal,
		})
		ordinal++
	}
	return subperiods
}

// PastSubperiods 生成预提估算用的历史月度区间：从处理日按测算方法回退
// 若干年月作为起点，取补齐期间所缺月数的连续月份，每月附带增减系数。
func PastSubperiods(processDate time.Time, monthsRemain int, method *models.ProvisionMethod) []WeightedRange {
	if method == nil || monthsRemain <= 0 {
		return nil
	}

	factors := make(map[int]decimal.Decimal, len(method.Factors))
	for _, f := range method.Factors {
		factors[f.Month] = f.Factor.Decimal
	}

	backStart := addMonthsClamped(processDate.AddDate(-method.YearsBack, 0, 0), -method.MonthsBack).AddDate(0, 0, 1)

	ranges := make([]WeightedRange, 0, monthsRemain)
	for i := 0; i < monthsRemain; i++ {
		start := addMonthsClamped(backStart, i)
		end := addMonthsClamped(backStart, i+1).AddDate(0, 0, -1)

		factor, ok := factors[int(start.Month())]
		if !ok || factor.IsZero() {
			factor = decimal.NewFromInt(1)
		}
		ranges = append(ranges, WeightedRange{Start: start, End: end, Factor: factor})
	}
	return ranges
}

// monthsBetween a 到 b 之间的整月数（b 早于 a 时为负）。
// 比较日时把 a 的日钳到 b 所在月的月末：月末开始的合同其子期间结束日
// 会被钳到短月（1 月 31 日开始 → 2 月 27 日结束），次日锚点落在月末时
// 必须算满一个整月，否则期间永远停在原地。
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	day := a.Day()
	if last := daysInMonth(b.Year(), b.Month()); day > last {
		day = last
	}
	if b.Day() < day {
		months--
	}
	return months
}

// addMonthsClamped 加减月份并将日钳制到目标月的最后一天，
// 避免 AddDate 的溢出进位（1 月 31 日 + 1 月 = 2 月 28/29 日）。
func addMonthsClamped(t time.Time, months int) time.Time {
	total := t.Year()*12 + int(t.Month()) - 1 + months
	year := total / 12
	month := total%12 + 1
	day := t.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
