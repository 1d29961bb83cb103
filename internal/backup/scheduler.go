package backup

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs periodic export/push cycles for one user. It shares a guard
// mutex with the Restorer: a cycle that would overlap a foreground restore
// is skipped and retried on the next tick.
type Scheduler struct {
	exporter *Exporter
	client   *Client
	guard    *sync.Mutex
	log      zerolog.Logger
	cron     *cron.Cron
	userID   int64
}

// NewScheduler creates a scheduler. Pass the guard shared with NewRestorer.
func NewScheduler(exporter *Exporter, client *Client, guard *sync.Mutex, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		exporter: exporter,
		client:   client,
		guard:    guard,
		log:      log,
	}
}

// Start begins firing backups for the given user on the cron schedule
// (e.g. "@every 15m" or "0 * * * *").
func (s *Scheduler) Start(spec string, userID int64) error {
	s.userID = userID
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", spec).Int64("user_id", userID).Msg("Periodic backup started")
	return nil
}

// Stop halts the schedule, waiting for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) run() {
	if !s.guard.TryLock() {
		s.log.Warn().Msg("Skipping periodic backup: restore in progress")
		return
	}
	defer s.guard.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := s.exporter.Export(ctx, s.userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", s.userID).Msg("Periodic backup export failed")
		return
	}

	if _, err := s.client.Push(ctx, doc); err != nil {
		s.log.Error().Err(err).Int64("user_id", s.userID).Msg("Periodic backup push failed")
	}
}
