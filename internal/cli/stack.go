package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/obeidat/hrdesk/internal/config"
	"github.com/obeidat/hrdesk/internal/confirm"
	"github.com/obeidat/hrdesk/internal/directory"
	"github.com/obeidat/hrdesk/internal/dispatch"
	"github.com/obeidat/hrdesk/internal/engine"
	"github.com/obeidat/hrdesk/internal/filter"
	"github.com/obeidat/hrdesk/internal/hooks"
	"github.com/obeidat/hrdesk/internal/logging"
	"github.com/obeidat/hrdesk/internal/report"
	"github.com/obeidat/hrdesk/internal/session"
	"github.com/obeidat/hrdesk/internal/store"
	"github.com/obeidat/hrdesk/internal/tools"
)

// stack is the assembled service: storage, engine, tools, confirmation
// workflow and the dispatcher on top.
type stack struct {
	db         *store.DB
	hr         *store.HR
	dispatcher *dispatch.Dispatcher
	hooks      *hooks.Manager
	engineName string
}

func (s *stack) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// buildStack wires every component from config. The caller owns the
// returned stack and must close it.
func buildStack(cfg config.Config, paths config.Paths, log *logging.Logger) (*stack, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("preparing data directories: %w", err)
	}

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = filepath.Join(paths.Data, "hrdesk.db")
	}
	db, err := store.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	hr := store.NewHR(db)
	log.Info().Str("path", dbPath).Msg("HR store ready")

	var sessStore session.Store
	if cfg.Session.Store == "memory" {
		sessStore = session.NewMemoryStore(cfg.Session.MaxEntries)
		log.Info().Msg("using in-memory session store")
	} else {
		sessStore = store.NewSQLiteSessionStore(db)
		log.Info().Msg("using SQLite session store")
	}
	sessions := session.NewRegistry(sessStore)

	reportsDir := cfg.Reports.Dir
	if reportsDir == "" {
		reportsDir = paths.Reports
	}
	renderer, err := report.NewFileRenderer(reportsDir, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing reports directory: %w", err)
	}

	eng, err := engine.NewClientFromConfig(cfg.Engine, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring engine: %w", err)
	}

	pending := confirm.NewPendingStore(
		time.Duration(cfg.Confirm.TTLMinutes)*time.Minute,
		cfg.Confirm.MaxPending,
		log,
	)
	workflow := confirm.NewWorkflow(pending, log)
	workflow.RegisterFinalizer(tools.NewLeaveFinalizer(hr))
	workflow.RegisterFinalizer(tools.NewOnboardFinalizer(hr))

	toolReg := tools.NewRegistry(log)
	toolReg.Register(tools.NewProfileTool(hr))
	toolReg.Register(tools.NewColleagueTool(hr))
	toolReg.Register(tools.NewBalanceReportTool(hr, hr, renderer))
	toolReg.Register(tools.NewLeaveRequestTool(workflow))
	toolReg.Register(tools.NewOnboardTool(workflow))

	hookMgr := hooks.NewManager(log)

	d := dispatch.New(
		dispatch.Config{
			AgentName:   cfg.Agent.Name,
			Model:       cfg.Engine.Model,
			MaxTokens:   cfg.Agent.MaxTokens,
			Temperature: cfg.Agent.Temperature,
			ExtraPrompt: cfg.Agent.ExtraPrompt,
		},
		filter.New(cfg.Filter.Phrases, log),
		directory.NewResolver(hr, log),
		sessions,
		eng,
		toolReg,
		workflow,
		hookMgr,
		log,
	)

	return &stack{
		db:         db,
		hr:         hr,
		dispatcher: d,
		hooks:      hookMgr,
		engineName: eng.Name(),
	}, nil
}
