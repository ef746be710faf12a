package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/centrosocial/centro-api/pkg/events"
	"github.com/centrosocial/centro-api/pkg/telegram"
)

const (
	// JobBasicNotification relays the QueryPerformed event to the chat
	JobBasicNotification = "notificacion-basica"
	// JobPeriodicReport sends a status snapshot every two minutes
	JobPeriodicReport = "reporte-periodico"

	reportCronSpec = "*/2 * * * *"

	historySize = 100
	runTimeout  = 30 * time.Second
)

// Notifier delivers a message to the configured chat destination
type Notifier interface {
	Send(ctx context.Context, text string) (*telegram.Receipt, error)
}

// RunRecord is one entry in the bounded run history
type RunRecord struct {
	Job      string        `json:"job"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Service runs the two registered job definitions in-process: the
// event-triggered relay and the cron-driven status report. Delivery is
// best-effort within the process lifetime; failed runs are recorded and
// logged, not retried.
type Service struct {
	notifier Notifier
	bus      events.Bus

	cron        *cron.Cron
	unsubscribe func()
	workerWg    sync.WaitGroup

	mu      sync.Mutex
	running bool
	history []RunRecord
}

// NewService creates a job runner bound to a notifier and an event bus
func NewService(notifier Notifier, bus events.Bus) *Service {
	return &Service{
		notifier: notifier,
		bus:      bus,
	}
}

// Start subscribes the relay job to the event bus and registers the periodic
// report with the cron runner.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ch, unsubscribe := s.bus.Subscribe(32)
	s.unsubscribe = unsubscribe
	s.workerWg.Add(1)
	go s.relayWorker(ch)

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(reportCronSpec, func() {
		s.runRecorded(JobPeriodicReport, func(ctx context.Context) error {
			_, err := s.RunPeriodicReport(ctx)
			return err
		})
	}); err != nil {
		unsubscribe()
		s.workerWg.Wait()
		return err
	}
	s.cron.Start()

	s.running = true
	log.Printf("INFO: Job runner started: '%s' on event '%s', '%s' on cron '%s'",
		JobBasicNotification, events.QueryPerformed, JobPeriodicReport, reportCronSpec)
	return nil
}

// Stop halts the cron runner and drains the relay worker
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cron.Stop()
	s.unsubscribe()
	s.workerWg.Wait()
}

// relayWorker consumes bus events until the subscription closes
func (s *Service) relayWorker(ch <-chan events.Event) {
	defer s.workerWg.Done()
	for e := range ch {
		if e.Name != events.QueryPerformed {
			continue
		}
		event := e
		s.runRecorded(JobBasicNotification, func(ctx context.Context) error {
			_, err := s.RunBasicNotification(ctx, event)
			return err
		})
	}
}

// runRecorded executes one job run with a bounded context and records it in
// the history ring. Failures are logged, never propagated: job errors must
// not affect anything outside the runner.
func (s *Service) runRecorded(job string, run func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	record := RunRecord{Job: job, Started: time.Now()}
	err := run(ctx)
	record.Duration = time.Since(record.Started)
	if err != nil {
		record.Error = err.Error()
		log.Printf("ERROR: Job '%s' failed: %v", job, err)
	}

	s.mu.Lock()
	s.history = append(s.history, record)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	s.mu.Unlock()
}

// History returns a copy of the recorded runs, most recent last
func (s *Service) History() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RunRecord, len(s.history))
	copy(out, s.history)
	return out
}
