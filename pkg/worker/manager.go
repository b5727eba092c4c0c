package worker

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"rfc-mirror/pkg/domain"
)

// DefaultWorkerCount caps the number of in-flight document requests
const DefaultWorkerCount = 10

// Stats summarises a fetch-and-persist run
type Stats struct {
	Attempted      int
	Downloaded     int
	AlreadyPresent int
	Missing        int
}

// Manager drives the worker over the document number range using a bounded pool
type Manager struct {
	workerCount int
	pipelined   bool
	worker      *Worker
}

// Config holds configuration for Manager
type Config struct {
	WorkerCount int
	// Pipelined submits every ID up front and collects results as they complete.
	// When false, each ID is submitted to the pool and awaited before the next one.
	Pipelined bool
	Worker    *Worker
}

// NewManager creates a new manager
func NewManager(config Config) *Manager {
	workers := config.WorkerCount
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	return &Manager{
		workerCount: workers,
		pipelined:   config.Pipelined,
		worker:      config.Worker,
	}
}

type result struct {
	id      domain.DocumentID
	outcome Outcome
	err     error
}

// ProcessRange attempts every ID in [1, total). It stops at the first fatal error
// or when ctx is cancelled; the stats cover every ID that completed.
func (m *Manager) ProcessRange(ctx context.Context, total int) (Stats, error) {
	if total <= 1 {
		log.Printf("Manager: nothing to do for total %d", total)
		return Stats{}, nil
	}

	if m.pipelined {
		return m.processPipelined(ctx, total)
	}
	return m.processSequential(ctx, total)
}

// processSequential submits one ID at a time and waits for it before submitting the next
func (m *Manager) processSequential(ctx context.Context, total int) (Stats, error) {
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workerCount)

	for num := 1; num < total; num++ {
		if gctx.Err() != nil {
			break
		}

		id := domain.DocumentID(num)
		done := make(chan result, 1)
		g.Go(func() error {
			outcome, err := m.worker.ProcessID(gctx, id)
			done <- result{id: id, outcome: outcome, err: err}
			return err
		})

		res := <-done
		if res.err != nil {
			break
		}
		stats.record(res)
	}

	err := g.Wait()
	log.Printf("Manager: completed %d attempted, %d downloaded, %d already present, %d missing",
		stats.Attempted, stats.Downloaded, stats.AlreadyPresent, stats.Missing)
	return stats, err
}

// processPipelined keeps up to workerCount requests in flight across loop iterations
func (m *Manager) processPipelined(ctx context.Context, total int) (Stats, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workerCount)

	// Results channel lets a single goroutine aggregate without locking
	resultsChan := make(chan result, m.workerCount*2)

	var waitErr error
	go func() {
		for num := 1; num < total; num++ {
			if gctx.Err() != nil {
				break
			}
			id := domain.DocumentID(num)
			g.Go(func() error {
				outcome, err := m.worker.ProcessID(gctx, id)
				resultsChan <- result{id: id, outcome: outcome, err: err}
				return err
			})
		}
		waitErr = g.Wait()
		close(resultsChan)
	}()

	var stats Stats
	for res := range resultsChan {
		stats.record(res)
	}

	log.Printf("Manager: completed %d attempted, %d downloaded, %d already present, %d missing",
		stats.Attempted, stats.Downloaded, stats.AlreadyPresent, stats.Missing)
	return stats, waitErr
}

func (s *Stats) record(res result) {
	// Fatal or cancelled IDs did not complete
	if res.err != nil {
		return
	}

	s.Attempted++
	switch res.outcome {
	case Downloaded:
		s.Downloaded++
	case AlreadyPresent:
		s.AlreadyPresent++
	default:
		s.Missing++
	}

	if s.Attempted%100 == 0 {
		log.Printf("Progress: %d attempted, %d downloaded, %d missing", s.Attempted, s.Downloaded, s.Missing)
	}
}
