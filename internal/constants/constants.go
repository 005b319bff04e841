package constants

// PeriodLength 结算期间长度编码
type PeriodLength int

const (
	PeriodMonthly     PeriodLength = iota // 月度
	PeriodQuarterly                       // 季度
	PeriodFourMonthly                     // 四个月
	PeriodBiyearly                        // 半年
	PeriodYearly                          // 年度
)

// periodMonths 期间长度编码对应的月数
var periodMonths = map[PeriodLength]int{
	PeriodMonthly:     1,
	PeriodQuarterly:   3,
	PeriodFourMonthly: 4,
	PeriodBiyearly:    6,
	PeriodYearly:      12,
}

// Months 期间包含的月数，未知编码返回 0
func (p PeriodLength) Months() int {
	return periodMonths[p]
}

// Valid 判断期间长度编码是否合法
func (p PeriodLength) Valid() bool {
	_, ok := periodMonths[p]
	return ok
}

// Basis 比较/计算基准
type Basis int

const (
	BasisGross    Basis = iota // 毛额
	BasisNet                   // 净额
	BasisQuantity              // 数量
)

// Formula 阶梯返利公式类型
type Formula int

const (
	FormulaPercentage Formula = iota // 百分比
	FormulaUnitValue                 // 单位值
	FormulaTotalValue                // 固定总额
)

// 合同状态
const (
	ContractStatusActive = "active"
	ContractStatusClosed = "closed"
)

// 单据状态
const (
	DocStatusDraft     = "draft"
	DocStatusValidated = "validated"
)

// 单据类型的采购量计入方式
const (
	VolumeFlagInclude = "I" // 正向计入
	VolumeFlagNegate  = "G" // 反向计入（退货类）
	VolumeFlagExclude = "N" // 不计入
)

// 单据性质
const (
	DocNatureNormal = ""  // 普通采购单据
	DocNatureRebate = "R" // 返利引擎生成的单据
)

// 结算运行状态
const (
	RunStatusRunning  = "running"
	RunStatusFinished = "finished"
)

// 合同处理结果状态
const (
	ResultStatusCommitted = "committed"
	ResultStatusFailed    = "failed"
)

// 队列与任务名称
const (
	QueueDefault      = "default"
	TaskSettlementRun = "settlement:run"
)
