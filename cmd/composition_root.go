package cmd

import (
	"fmt"
	"log/slog"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/gateway"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/metrics"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/clock"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	clock      clock.Clock
	uowFactory ports.UnitOfWorkFactory
	registry   *prometheus.Registry
	dispatcher *commands.CascadeDispatcher
}

// NewCompositionRoot wires the dispatcher and its adapters. gormDB may be nil
// when config.Storage is memory.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	cascadeCfg := cascadeConfig(config)
	if err := cascadeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("cascade config: %w", err)
	}

	var uowFactory ports.UnitOfWorkFactory
	if config.Storage == StorageMemory {
		uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
	} else {
		uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewCascadeObserver(registry)
	if err != nil {
		return nil, err
	}

	notifier, err := newNotifier(config, logger)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:     config,
		logger:     logger,
		clock:      clock.System{},
		uowFactory: uowFactory,
		registry:   registry,
	}
	c.dispatcher = commands.NewCascadeDispatcher(c.cascadeUoWFactory(), notifier, observer, c.clock, cascadeCfg, logger)
	return c, nil
}

func newNotifier(config Config, logger *slog.Logger) (ports.Notifier, error) {
	if config.GatewayURL == "" {
		logger.Warn("GATEWAY_URL is not set, notifications are only logged")
		return gateway.NewLogNotifier(logger), nil
	}
	notifier, err := gateway.NewHTTPNotifier(gateway.Config{
		URL:           config.GatewayURL,
		Token:         config.GatewayToken,
		Attempts:      config.GatewayAttempts,
		RatePerSecond: config.GatewayRatePerSec,
	}, logger)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

func cascadeConfig(config Config) commands.CascadeConfig {
	cfg := commands.DefaultCascadeConfig()
	if config.CascadeTimeout > 0 {
		cfg.Timeout = config.CascadeTimeout
	}
	if config.GatewayFailureDelay > 0 {
		cfg.GatewayFailureDelay = config.GatewayFailureDelay
	}
	if config.CorrelationTTL > 0 {
		cfg.CorrelationTTL = config.CorrelationTTL
	}
	if config.CascadeStartGrace > 0 {
		cfg.StartGrace = config.CascadeStartGrace
	}
	return cfg
}

// Dispatcher is exposed so shutdown can wait for in-flight notifications.
func (c *CompositionRoot) Dispatcher() *commands.CascadeDispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) cascadeUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) candidateUoWFactory() commands.CandidateUoWFactory {
	return FuncCandidateUoWFactory(func() commands.CandidateUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.jobUoWFactory(), c.CreateStartCascadeCommandHandler(), c.clock)
}

func (c *CompositionRoot) CreateStartCascadeCommandHandler() commands.StartCascadeCommandHandler {
	return commands.NewStartCascadeCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateRespondToJobCommandHandler() commands.RespondToJobCommandHandler {
	return commands.NewRespondToJobCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateCancelJobCommandHandler() commands.CancelJobCommandHandler {
	return commands.NewCancelJobCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateFireDueTimersCommandHandler() commands.FireDueTimersCommandHandler {
	return commands.NewFireDueTimersCommandHandler(c.dispatcher)
}

func (c *CompositionRoot) CreateSweepCorrelationsCommandHandler() commands.SweepCorrelationsCommandHandler {
	return commands.NewSweepCorrelationsCommandHandler(c.cascadeUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdatePositionCommandHandler() commands.UpdatePositionCommandHandler {
	return commands.NewUpdatePositionCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateIssueCodeCommandHandler() commands.IssueCodeCommandHandler {
	return commands.NewIssueCodeCommandHandler(c.jobUoWFactory(), services.NewRandomCodeGenerator(), c.clock, c.config.CodeTTL)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.jobUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCompleteJobCommandHandler() commands.CompleteJobCommandHandler {
	return commands.NewCompleteJobCommandHandler(c.jobUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateRegisterCandidateCommandHandler() commands.RegisterCandidateCommandHandler {
	return commands.NewRegisterCandidateCommandHandler(c.candidateUoWFactory())
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(c.uowFactory.Create().JobRepository())
}

func (c *CompositionRoot) CreateVerifyCodeQueryHandler() queries.VerifyCodeQueryHandler {
	return queries.NewVerifyCodeQueryHandler(c.uowFactory.Create().JobRepository(), c.clock)
}

func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateJob:         c.CreateCreateJobCommandHandler(),
		CancelJob:         c.CreateCancelJobCommandHandler(),
		UpdatePosition:    c.CreateUpdatePositionCommandHandler(),
		IssueCode:         c.CreateIssueCodeCommandHandler(),
		ConfirmPickup:     c.CreateConfirmPickupCommandHandler(),
		CompleteJob:       c.CreateCompleteJobCommandHandler(),
		RespondToJob:      c.CreateRespondToJobCommandHandler(),
		RegisterCandidate: c.CreateRegisterCandidateCommandHandler(),
		GetJob:            c.CreateGetJobQueryHandler(),
		VerifyCode:        c.CreateVerifyCodeQueryHandler(),
	}, c.clock, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateFireDueTimersCommandHandler(),
		c.CreateSweepCorrelationsCommandHandler(),
		jobs.Schedules{Timers: c.config.TimerSchedule, Sweep: c.config.SweepSchedule},
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncCandidateUoWFactory func() commands.CandidateUoW

func (f FuncCandidateUoWFactory) Create() commands.CandidateUoW {
	return f()
}
