package provider

import (
	"github.com/fanli-next/internal/cache"
	"github.com/fanli-next/internal/config"
	"github.com/fanli-next/internal/document"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/models"
	"github.com/fanli-next/internal/queue"
	"github.com/fanli-next/internal/repository"
	"github.com/fanli-next/internal/service"
	"github.com/fanli-next/internal/settlement"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	ContractRepo   repository.ContractRepository
	ScaleRepo      repository.ScaleRepository
	ProvisionRepo  repository.ProvisionRepository
	PurchaseRepo   repository.PurchaseRepository
	SettlementRepo repository.SettlementRepository
	ArticleRepo    repository.ArticleRepository
	RateRepo       repository.RateRepository
	DocTypeRepo    repository.DocumentTypeRepository
	RunLogRepo     repository.RunLogRepository

	// Services
	AuthService      *service.AuthService
	DocumentService  *document.Service
	SettlementEngine *settlement.Engine
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ContractRepo = repository.NewContractRepository(db)
	c.ScaleRepo = repository.NewScaleRepository(db)
	c.ProvisionRepo = repository.NewProvisionRepository(db)
	c.PurchaseRepo = repository.NewPurchaseRepository(db)
	c.SettlementRepo = repository.NewSettlementRepository(db)
	c.ArticleRepo = repository.NewArticleRepository(db)
	c.RateRepo = repository.NewRateRepository(db)
	c.DocTypeRepo = repository.NewDocumentTypeRepository(db)
	c.RunLogRepo = repository.NewRunLogRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.DocumentService = document.NewService(c.PurchaseRepo, c.DocTypeRepo, c.ArticleRepo)
	c.SettlementEngine = settlement.NewEngine(models.DB, c.Config.Settlement,
		c.ContractRepo, c.ScaleRepo, c.ProvisionRepo, c.RunLogRepo)
}
