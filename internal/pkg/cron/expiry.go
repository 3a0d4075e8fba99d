package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpulse-hq/attendance-backend-go/internal/config"
	"github.com/workpulse-hq/attendance-backend-go/internal/domain/attendance"
)

// ExpiryJobs closes sessions that outlived the maximum duration. The clock
// is injectable so tests can freeze it.
type ExpiryJobs struct {
	entryRepo attendance.EntryRepository
	policy    config.AttendanceConfig
	now       func() time.Time
}

func NewExpiryJobs(entryRepo attendance.EntryRepository, policy config.AttendanceConfig) *ExpiryJobs {
	return &ExpiryJobs{
		entryRepo: entryRepo,
		policy:    policy,
		now:       time.Now,
	}
}

func (j *ExpiryJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("expire_stale_sessions", j.policy.SweepInterval, j.ExpireStaleSessions)
}

// ExpireStaleSessions sweeps all open sessions and force-closes the ones
// older than the maximum session duration. The recorded clock-out is the
// cap boundary (clock-in plus the maximum), not the sweep time, so the
// stored duration never exceeds the cap no matter how late the sweep ran.
func (j *ExpiryJobs) ExpireStaleSessions(ctx context.Context) error {
	open, err := j.entryRepo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	nowUTC := j.now().UTC()
	expiredCount := 0

	for _, entry := range open {
		if nowUTC.Sub(entry.ClockIn) < j.policy.MaxSession {
			continue
		}

		clockOut := entry.ClockIn.Add(j.policy.MaxSession)
		durationMinutes := int(j.policy.MaxSession / time.Minute)

		expired, err := j.entryRepo.AutoExpire(ctx, entry.ID, clockOut, durationMinutes)
		if err != nil {
			return fmt.Errorf("failed to expire session %s: %w", entry.ID, err)
		}
		if !expired {
			// The employee clocked out between our read and the CAS; their
			// transition stands and ours is a no-op.
			slog.Debug("Session closed before sweep could expire it", "entry_id", entry.ID)
			continue
		}

		expiredCount++
		slog.Info("Session auto-expired",
			"entry_id", entry.ID,
			"employee_id", entry.EmployeeID,
			"clock_in", entry.ClockIn.Format(time.RFC3339),
			"clock_out", clockOut.Format(time.RFC3339),
		)
	}

	if expiredCount > 0 {
		slog.Info("Expiry sweep finished", "expired", expiredCount, "open_checked", len(open))
	}

	return nil
}
