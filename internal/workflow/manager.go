package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"carousel/internal/config"
	"carousel/internal/logging"
	"carousel/internal/notifications"
	"carousel/internal/queue"
	"carousel/internal/stage"
)

// pipelineStage binds a stage handler to the statuses it consumes and
// produces.
type pipelineStage struct {
	name             string
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
	handler          stage.Handler
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service

	pollInterval       time.Duration
	errorRetryInterval time.Duration

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager with default dependencies.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:                cfg,
		store:              store,
		logger:             logging.NewComponentLogger(logger, "workflow"),
		notifier:           notifier,
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		stageByStart:       make(map[queue.Status]pipelineStage),
	}
}

// RegisterStages wires the identification and organization handlers into the
// pipeline. Must be called before Start.
func (m *Manager) RegisterStages(identifier, organizer stage.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stages = []pipelineStage{
		{
			name:             "identifier",
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusIdentifying,
			doneStatus:       queue.StatusIdentified,
			handler:          identifier,
		},
		{
			name:             "organizer",
			startStatus:      queue.StatusIdentified,
			processingStatus: queue.StatusOrganizing,
			doneStatus:       queue.StatusCompleted,
			handler:          organizer,
		},
	}
	m.stageByStart = make(map[queue.Status]pipelineStage, len(m.stages))
	m.statusOrder = m.statusOrder[:0]
	for _, stg := range m.stages {
		m.stageByStart[stg.startStatus] = stg
		m.statusOrder = append(m.statusOrder, stg.startStatus)
	}
}
