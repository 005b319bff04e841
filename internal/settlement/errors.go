package settlement

import "errors"

// 合同级校验错误：只中止当前合同的事务，批次继续。
var (
	// ErrNoScales 合同未配置返利阶梯
	ErrNoScales = errors.New("settlement: no scale brackets configured")
	// ErrNoProvisionMethod 非月度期间缺少预提测算方法
	ErrNoProvisionMethod = errors.New("settlement: provision method not configured")
	// ErrAlreadyProcessed 处理日期不晚于最近一次结算/预提
	ErrAlreadyProcessed = errors.New("settlement: process date not after last processed date")
	// ErrNotSubperiodBoundary 处理日期不是任何子期间的结束日
	ErrNotSubperiodBoundary = errors.New("settlement: process date is not a subperiod end")
	// ErrOutOfSequence 处理日期对应的子期间不是下一个待处理子期间
	ErrOutOfSequence = errors.New("settlement: subperiod is not the next pending one")
	// ErrMissingRewardArticle 返利金额非零但合同未配置返利入账商品
	ErrMissingRewardArticle = errors.New("settlement: reward article not configured")
)
