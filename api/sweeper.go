/*
sweeper.go - Scheduled organization-wide gap sweep

PURPOSE:
  Periodically recomputes the organization gap summary in the
  background so the dashboard endpoint answers from a cached snapshot
  instead of sweeping every project per request.

DESIGN:
  - cron-driven (robfig/cron), schedule comes from configuration
  - One sweep runs immediately on Start so the cache is never empty
  - The cached summary is guarded by a mutex; readers never block on
    a running sweep

USAGE:
  sweeper := NewGapSweeper(analyzer, "@hourly", log)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - planning/gaps.go: SummarizeGaps
  - server.go: GET /api/gaps/summary
*/
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/warp/staffing-engine/planning"
)

// GapSweeper refreshes the organization gap summary on a schedule and
// serves the latest snapshot.
type GapSweeper struct {
	Analyzer *planning.Analyzer
	Schedule string
	Log      zerolog.Logger

	cron *cron.Cron

	mu     sync.RWMutex
	latest *planning.GapSummary
}

// NewGapSweeper creates a sweeper with the given cron schedule
// (standard cron spec or a descriptor such as "@hourly").
func NewGapSweeper(analyzer *planning.Analyzer, schedule string, log zerolog.Logger) *GapSweeper {
	return &GapSweeper{
		Analyzer: analyzer,
		Schedule: schedule,
		Log:      log.With().Str("component", "gap-sweeper").Logger(),
	}
}

// Start registers the cron entry and runs one sweep right away.
func (s *GapSweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.Schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	go s.run()
	return nil
}

// Stop halts the schedule. A sweep already in flight completes.
func (s *GapSweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *GapSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	byProject, err := s.Analyzer.OrganizationGaps(ctx)
	if err != nil {
		s.Log.Error().Err(err).Msg("gap sweep failed")
		return
	}
	summary := planning.SummarizeGaps(byProject)

	s.mu.Lock()
	s.latest = &summary
	s.mu.Unlock()

	s.Log.Info().
		Int("projects", summary.Projects).
		Int("projects_with_gaps", summary.ProjectsWithGaps).
		Int("open_gaps", summary.OpenGaps).
		Str("total_shortfall", summary.TotalShortfall.String()).
		Dur("took", time.Since(start)).
		Msg("gap sweep complete")
}

// Summary returns the latest snapshot, or nil if no sweep has
// completed yet.
func (s *GapSweeper) Summary() *planning.GapSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// ServeSummary serves the cached summary, computing one inline if the
// first scheduled sweep has not finished yet.
func (s *GapSweeper) ServeSummary(w http.ResponseWriter, r *http.Request) {
	summary := s.Summary()
	if summary == nil {
		byProject, err := s.Analyzer.OrganizationGaps(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to compute gap summary", err)
			return
		}
		fresh := planning.SummarizeGaps(byProject)
		summary = &fresh
	}

	writeJSON(w, http.StatusOK, GapSummaryDTO{
		Projects:         summary.Projects,
		ProjectsWithGaps: summary.ProjectsWithGaps,
		OpenGaps:         summary.OpenGaps,
		TotalShortfall:   summary.TotalShortfall.InexactFloat64(),
		GeneratedAt:      summary.GeneratedAt.Format(time.RFC3339),
	})
}
