package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/fanli-next/internal/audit"
	"github.com/fanli-next/internal/config"
	"github.com/fanli-next/internal/constants"
	"github.com/fanli-next/internal/document"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcessRequest 一次结算批次的入参
type ProcessRequest struct {
	ProcessDate time.Time
	Suppliers   []string // 为空处理全部供应商
	Extra       string   // 自由备注，写入批次日志
}

// ContractResult 单个合同的处理结果
type ContractResult struct {
	ContractID uint
	ContractNo string
	DocumentID *uint
	Err        error
}

// Engine 合同结算编排器：逐合同串行处理，每个合同一个事务，
// 失败仅回滚并记录该合同，批次继续。
type Engine struct {
	db         *gorm.DB
	cfg        config.SettlementConfig
	contracts  repository.ContractRepository
	scales     repository.ScaleRepository
	provisions repository.ProvisionRepository
	runs       repository.RunLogRepository
}

// NewEngine 创建结算编排器
func NewEngine(db *gorm.DB, cfg config.SettlementConfig,
	contracts repository.ContractRepository, scales repository.ScaleRepository,
	provisions repository.ProvisionRepository, runs repository.RunLogRepository) *Engine {
	return &Engine{
		db:         db,
		cfg:        cfg,
		contracts:  contracts,
		scales:     scales,
		provisions: provisions,
		runs:       runs,
	}
}

// Process 执行一次结算批次，返回批次标识。
func (e *Engine) Process(ctx context.Context, req ProcessRequest) (string, error) {
	runLog, err := audit.Begin(e.runs, req.ProcessDate, req.Suppliers, req.Extra)
	if err != nil {
		return "", fmt.Errorf("begin run log: %w", err)
	}

	contracts, err := e.contracts.ListForProcessing(repository.ContractScopeFilter{
		ProcessDate: req.ProcessDate,
		Suppliers:   req.Suppliers,
	})
	if err != nil {
		runLog.End(0, 0, 0)
		return runLog.RunID(), fmt.Errorf("list contracts: %w", err)
	}

	success, failed := 0, 0
	for i := range contracts {
		contract := &contracts[i]
		result := e.processOne(ctx, contract, req.ProcessDate)
		runLog.Entry(contract, result.DocumentID, result.Err)
		if result.Err != nil {
			failed++
		} else {
			success++
		}
	}

	runLog.End(len(contracts), success, failed)
	return runLog.RunID(), nil
}

// processOne 在单个事务内处理一个合同，出错整体回滚。
func (e *Engine) processOne(ctx context.Context, contract *models.RebateContract, processDate time.Time) ContractResult {
	result := ContractResult{ContractID: contract.ID, ContractNo: contract.ContractNo}

	result.Err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docID, err := e.processInTx(tx, contract, processDate)
		if err != nil {
			return err
		}
		result.DocumentID = docID
		return nil
	})
	return result
}

func (e *Engine) processInTx(tx *gorm.DB, contract *models.RebateContract, processDate time.Time) (*uint, error) {
	contracts := repository.NewContractRepository(tx)
	scales := repository.NewScaleRepository(tx)
	provisions := repository.NewProvisionRepository(tx)
	purchases := repository.NewPurchaseRepository(tx)
	settlements := repository.NewSettlementRepository(tx)
	articles := repository.NewArticleRepository(tx)
	rates := repository.NewRateRepository(tx)
	docTypes := repository.NewDocumentTypeRepository(tx)

	// 校验闸门，任一不满足即判本合同失败
	scaleCount, err := scales.CountByContract(contract.ID)
	if err != nil {
		return nil, fmt.Errorf("count scales: %w", err)
	}
	if scaleCount == 0 {
		return nil, fmt.Errorf("%w: contract %s", ErrNoScales, contract.ContractNo)
	}

	var method *models.ProvisionMethod
	if contract.PeriodLength != constants.PeriodMonthly {
		if contract.ProvisionMethodCode == "" {
			return nil, fmt.Errorf("%w: contract %s", ErrNoProvisionMethod, contract.ContractNo)
		}
		method, err = provisions.GetByCode(contract.ProvisionMethodCode)
		if err != nil {
			return nil, fmt.Errorf("resolve provision method: %w", err)
		}
		if method == nil {
			return nil, fmt.Errorf("%w: contract %s method %s", ErrNoProvisionMethod, contract.ContractNo, contract.ProvisionMethodCode)
		}
	}

	if contract.LastProcessed != nil && !processDate.After(*contract.LastProcessed) {
		return nil, fmt.Errorf("%w: contract %s last processed %s", ErrAlreadyProcessed,
			contract.ContractNo, contract.LastProcessed.Format("2006-01-02"))
	}

	pending := PendingSubperiods(contract.StartDate, contract.LastProcessed, contract.CalendarAligned, contract.PeriodLength.Months())

	var current *Subperiod
	for i := range pending {
		if pending[i].End.Equal(processDate) {
			current = &pending[i]
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("%w: contract %s date %s", ErrNotSubperiodBoundary,
			contract.ContractNo, processDate.Format("2006-01-02"))
	}
	if current.Ordinal != 1 {
		return nil, fmt.Errorf("%w: contract %s date %s is subperiod %d", ErrOutOfSequence,
			contract.ContractNo, processDate.Format("2006-01-02"), current.Ordinal)
	}

	// 当前期间实际采购恒为权重 1；预提追加历史月份估算剩余采购
	ranges := []WeightedRange{{Start: current.PeriodStart, End: processDate, Factor: decimal.NewFromInt(1)}}
	if !current.Settlement {
		ranges = append(ranges, PastSubperiods(processDate, len(pending)-1, method)...)
	}

	suppliers, settling := contractSuppliers(contract)
	filter := BuildSourceFilter(contract.SourceRules)

	aggregator := NewAggregator(purchases, settlements, articles, rates)
	totals, err := aggregator.Aggregate(contract, ranges, filter, suppliers, settling)
	if err != nil {
		return nil, err
	}

	var rebate RebateResult
	if !totals.IsZero() {
		brackets, err := scales.ListByContract(contract.ID)
		if err != nil {
			return nil, fmt.Errorf("list scales: %w", err)
		}
		comp := rawBasisTotal(contract.ComparisonBasis, totals)
		rebate = ComputeRebate(contract.AllRange, contract.ComparisonBasis, totals, comp, brackets)
	}

	docs := document.NewService(purchases, docTypes, articles)
	builder := NewBuilder(settlements, purchases, docs, e.cfg.AddressType)
	out, err := builder.Build(BuildInput{
		Contract:    contract,
		PeriodStart: current.PeriodStart,
		ProcessDate: processDate,
		Settlement:  current.Settlement,
		Totals:      totals,
		Rebate:      rebate,
		Settling:    settling,
	})
	if err != nil {
		return nil, err
	}

	if err := contracts.UpdateLastProcessed(contract.ID, processDate); err != nil {
		return nil, fmt.Errorf("advance last processed: %w", err)
	}

	if len(out.DocIDs) > 0 {
		return &out.DocIDs[0], nil
	}
	return nil, nil
}

// contractSuppliers 返回合同的全部供应商（采购量查询范围）与结算供应商
// （分摊对象）；均未配置时回退主供应商。
func contractSuppliers(contract *models.RebateContract) (suppliers, settling []string) {
	for _, supplier := range contract.Suppliers {
		suppliers = append(suppliers, supplier.SupplierCode)
		if supplier.Settles {
			settling = append(settling, supplier.SupplierCode)
		}
	}
	if len(suppliers) == 0 {
		suppliers = []string{contract.SupplierCode}
	}
	if len(settling) == 0 {
		settling = []string{contract.SupplierCode}
	}
	return suppliers, settling
}
