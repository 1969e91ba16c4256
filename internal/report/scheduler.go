package report

import (
	"context"
	"log"
	"sync"
	"time"
)

// Runner is what the scheduler triggers.
type Runner interface {
	SendWeeklyReport(ctx context.Context, now time.Time) error
}

// Scheduler fires the runner once per ISO week, on the configured weekday at
// or after the configured time of day (local time).
type Scheduler struct {
	runner   Runner
	weekday  time.Weekday
	hour     int
	minute   int
	interval time.Duration
	now      func() time.Time

	lastYear, lastWeek int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(runner Runner, weekday time.Weekday, hour, minute int, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		runner:   runner,
		weekday:  weekday,
		hour:     hour,
		minute:   minute,
		interval: interval,
		now:      time.Now,
	}
}

// Start starts the polling loop. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(ctx)

	log.Printf("⏰ Report scheduler started (%s %02d:%02d, polling every %v)", s.weekday, s.hour, s.minute, s.interval)
}

// Stop cancels the loop and waits for an in-flight run to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Println("⏰ Report scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs the report if it is due. A failed run still counts for the week.
func (s *Scheduler) tick(ctx context.Context) bool {
	now := s.now()
	if !s.due(now) {
		return false
	}
	s.lastYear, s.lastWeek = now.ISOWeek()

	if err := s.runner.SendWeeklyReport(ctx, now); err != nil {
		log.Printf("⚠️  Scheduled weekly report failed: %v", err)
	}
	return true
}

func (s *Scheduler) due(now time.Time) bool {
	if now.Weekday() != s.weekday {
		return false
	}
	y, m, d := now.Date()
	trigger := time.Date(y, m, d, s.hour, s.minute, 0, 0, now.Location())
	if now.Before(trigger) {
		return false
	}
	year, week := now.ISOWeek()
	return year != s.lastYear || week != s.lastWeek
}
