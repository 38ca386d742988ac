// Package scheduler drives periodic re-runs of every configured strategy and
// answers operator commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StratForge/internal/model"
	"StratForge/internal/report"
	"StratForge/internal/runner"
)

// Scheduler owns the cron loop and the last result per strategy.
type Scheduler struct {
	Cron       *cron.Cron
	Runner     *runner.Runner
	Strategies []*model.Strategy
	Ctx        context.Context

	mu   sync.Mutex
	last map[string]*model.BacktestResult
}

// New creates a scheduler. The context bounds every scheduled run.
func New(ctx context.Context, r *runner.Runner, strategies []*model.Strategy) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Runner:     r,
		Strategies: strategies,
		Ctx:        ctx,
		last:       make(map[string]*model.BacktestResult),
	}
}

// Register schedules the periodic run of all strategies.
func (s *Scheduler) Register(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the run task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	log.Info().Int("strategies", len(s.Strategies)).Msg("running scheduled backtests")
	results := s.Runner.RunAll(s.Ctx, s.Strategies)

	s.mu.Lock()
	for _, res := range results {
		s.last[res.StrategyName] = res
	}
	s.mu.Unlock()
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch {
	case command == "/run":
		go s.runTask()
		return "backtests started"
	case command == "/status":
		return s.statusReply()
	case strings.HasPrefix(command, "/report"):
		return s.reportReply(strings.TrimSpace(strings.TrimPrefix(command, "/report")))
	default:
		return "Commands:\n• /run - run all strategies now\n• /status - last run summaries\n• /report <strategy> - full report"
	}
}

func (s *Scheduler) statusReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.last) == 0 {
		return "no completed runs yet"
	}
	var b strings.Builder
	for _, res := range s.last {
		b.WriteString(report.Summary(res))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Scheduler) reportReply(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return "usage: /report <strategy>"
	}
	res, ok := s.last[name]
	if !ok {
		return fmt.Sprintf("no result for %q yet", name)
	}
	return report.Format(res)
}
