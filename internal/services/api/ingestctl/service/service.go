// Package service translates admin requests into ingest runs
package service

import (
	"context"
	"time"

	perr "killfeed/internal/platform/errors"
	"killfeed/internal/services/api/ingestctl/domain"
	ingestdom "killfeed/internal/services/ingest/domain"
)

// Trigger and backfill windows. A trigger is a quick catch up, a
// backfill a deliberate replay; the bounds keep both off the 90 day
// lookback ceiling the runner enforces anyway
const (
	defaultTriggerHours = 24
	maxTriggerHours     = 7 * 24

	defaultBackfillDays = 30
	maxBackfillDays     = 90
)

// Service defines the ingest admin contract
type Service interface {
	domain.ServicePort
}

// Svc implements the ingest admin service over the runner and status
// ports of the ingest worker module
type Svc struct {
	runner ingestdom.RunnerPort
	status ingestdom.StatusPort
}

// New constructs the admin service
func New(runner ingestdom.RunnerPort, status ingestdom.StatusPort) *Svc {
	if runner == nil || status == nil {
		panic("ingestctl.Service requires the ingest runner and status ports")
	}
	return &Svc{runner: runner, status: status}
}

// Trigger runs one server now with a short rewind window
func (s *Svc) Trigger(ctx context.Context, in domain.TriggerInput) (domain.RunResult, error) {
	if in.ServerID == "" {
		return domain.RunResult{}, perr.InvalidArgf("ingestctl: server id required")
	}
	hours := in.Hours
	if hours == 0 {
		hours = defaultTriggerHours
	}
	if hours < 1 || hours > maxTriggerHours {
		return domain.RunResult{}, perr.InvalidArgf("ingestctl: hours %d out of range 1..%d", hours, maxTriggerHours)
	}

	rep, err := s.runner.RunServer(ctx, in.ServerID, time.Duration(hours)*time.Hour)
	if err != nil {
		return domain.RunResult{}, err
	}
	return toRunResult(rep), nil
}

// Backfill replays one server's history
func (s *Svc) Backfill(ctx context.Context, in domain.BackfillInput) (domain.RunResult, error) {
	if in.ServerID == "" {
		return domain.RunResult{}, perr.InvalidArgf("ingestctl: server id required")
	}
	days := in.Days
	if days == 0 {
		days = defaultBackfillDays
	}
	if days < 1 || days > maxBackfillDays {
		return domain.RunResult{}, perr.InvalidArgf("ingestctl: days %d out of range 1..%d", days, maxBackfillDays)
	}

	rep, err := s.runner.RunServer(ctx, in.ServerID, time.Duration(days)*24*time.Hour)
	if err != nil {
		return domain.RunResult{}, err
	}
	return toRunResult(rep), nil
}

// Status reports scheduler and per server state
func (s *Svc) Status(ctx context.Context) (domain.StatusResponse, error) {
	st, err := s.status.Status(ctx)
	if err != nil {
		return domain.StatusResponse{}, err
	}

	out := domain.StatusResponse{
		Running:   st.Running,
		LastCycle: fmtTime(st.LastCycle),
		Servers:   make([]domain.ServerState, 0, len(st.Servers)),
	}
	for _, sv := range st.Servers {
		out.Servers = append(out.Servers, domain.ServerState{
			ServerID:    sv.ServerID,
			Name:        sv.Name,
			Known:       sv.Known,
			Active:      sv.Active,
			CoolingDown: sv.CoolingDown,
			Cursor:      fmtTime(sv.Cursor),
			LastFile:    sv.LastFile,
			LastEvent:   fmtTime(sv.LastEvent),
			LastRun:     fmtTime(sv.LastRun),
			LastError:   sv.LastError,
		})
	}
	return out, nil
}

// ClearCaches drops the ingest module's warm state
func (s *Svc) ClearCaches(ctx context.Context) (domain.ClearResponse, error) {
	if err := s.status.ClearCaches(ctx); err != nil {
		return domain.ClearResponse{}, err
	}
	return domain.ClearResponse{Cleared: true}, nil
}

func toRunResult(rep ingestdom.RunReport) domain.RunResult {
	return domain.RunResult{
		ServerID:   rep.ServerID,
		Mode:       rep.Mode.String(),
		Strategy:   rep.Strategy,
		Files:      rep.Files,
		Rows:       rep.Rows,
		Events:     rep.Events,
		Kills:      rep.Kills,
		Suicides:   rep.Suicides,
		Dropped:    rep.Dropped,
		Duplicates: rep.Duplicates,
		Cursor:     fmtTime(rep.Cursor),
		ElapsedMS:  rep.Elapsed.Milliseconds(),
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
