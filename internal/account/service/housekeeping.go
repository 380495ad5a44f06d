package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/go-co-op/gocron/v2"
)

const (
	DefaultHousekeepingInterval = time.Hour
	DefaultOrphanGrace          = 24 * time.Hour
)

// HousekeepingReport counts what a single run removed.
type HousekeepingReport struct {
	ExpiredInvites   int
	OrphanBusinesses int
}

// HousekeepingService periodically removes expired invites and businesses
// left without members by a partially failed onboarding.
type HousekeepingService struct {
	Store       store.Store
	Invites     *InviteService
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Interval    time.Duration
	OrphanGrace time.Duration

	scheduler gocron.Scheduler
}

// NewHousekeepingService fills in defaults for zero durations.
func NewHousekeepingService(
	st store.Store,
	invites *InviteService,
	m *metrics.Metrics,
	logger *slog.Logger,
	interval, orphanGrace time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if orphanGrace <= 0 {
		orphanGrace = DefaultOrphanGrace
	}

	return &HousekeepingService{
		Store:       st,
		Invites:     invites,
		Metrics:     m,
		Logger:      logger,
		Interval:    interval,
		OrphanGrace: orphanGrace,
	}
}

// Start schedules the cleanup job, running it once immediately. Call Stop to shut down.
func (s *HousekeepingService) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.Interval),
		gocron.NewTask(func() { s.RunOnce(context.Background()) }),
		gocron.WithName("housekeeping"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	s.scheduler = sched
	sched.Start()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "orphan_grace", s.OrphanGrace)
	return nil
}

// Stop waits for a running cleanup to finish.
func (s *HousekeepingService) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	s.Logger.Info("housekeeping service stopped")
	return err
}

// RunOnce performs one cleanup. Each step is independent; a failure in one
// does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	var report HousekeepingReport
	s.Logger.Debug("starting housekeeping cleanup")

	if n, err := s.Invites.DeleteExpired(ctx); err != nil {
		s.Logger.Error("failed to delete expired invites", "error", err)
	} else {
		report.ExpiredInvites = int(n)
		s.Metrics.HousekeepingDeleted("expired_invites", report.ExpiredInvites)
	}

	cutoff := time.Now().UTC().Add(-s.OrphanGrace)
	orphans, err := s.Store.Businesses().ListOrphanBusinesses(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to list orphan businesses", "error", err)
	}
	for _, b := range orphans {
		if err := s.Store.Businesses().DeleteBusiness(ctx, b.ID); err != nil {
			s.Logger.Error("failed to delete orphan business", "business_id", b.ID, "error", err)
			continue
		}
		s.Logger.Info("orphan business deleted", "business_id", b.ID, "created_at", b.CreatedAt)
		report.OrphanBusinesses++
	}
	s.Metrics.HousekeepingDeleted("orphan_businesses", report.OrphanBusinesses)

	s.Logger.Info("housekeeping cleanup completed",
		"expired_invites", report.ExpiredInvites,
		"orphan_businesses", report.OrphanBusinesses,
	)
	return report
}
