package rfcdownloadservice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rfc-mirror/pkg/config"
	"rfc-mirror/pkg/httpclient"
	"rfc-mirror/pkg/index"
	"rfc-mirror/pkg/store"
	"rfc-mirror/pkg/worker"
)

// Service mirrors every published RFC into a local folder
type Service struct {
	counter index.Counter
	store   *store.FileStore
	manager *worker.Manager
}

// Config holds the collaborators of the service
type Config struct {
	Counter     index.Counter
	Store       *store.FileStore
	Client      *httpclient.HTTPClient
	URLPattern  string
	FilePrefix  string
	WorkerCount int
	Pipelined   bool
}

// Summary describes a finished or interrupted run
type Summary struct {
	Total        int
	Stats        worker.Stats
	FilesPresent int
	Elapsed      time.Duration
	Interrupted  bool
}

// NewService creates a new service
func NewService(cfg Config) *Service {
	client := cfg.Client
	if client == nil {
		client = httpclient.NewClient(httpclient.RotatingClient)
	}

	w := worker.NewWorker(client, cfg.Store, cfg.URLPattern, cfg.FilePrefix)
	mgr := worker.NewManager(worker.Config{
		WorkerCount: cfg.WorkerCount,
		Pipelined:   cfg.Pipelined,
		Worker:      w,
	})

	return &Service{
		counter: cfg.Counter,
		store:   cfg.Store,
		manager: mgr,
	}
}

// NewFromConfig wires the service from application configuration
func NewFromConfig(cfg config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	counter, err := index.NewCounter(cfg.CountSource, cfg.IndexURL, cfg.FeedURL)
	if err != nil {
		return nil, err
	}

	fileStore, err := store.NewFileStore(cfg.DestDir, cfg.FilePrefix)
	if err != nil {
		return nil, err
	}

	rotator := httpclient.NewIdentityRotator(cfg.UserAgents, cfg.Accept)

	return NewService(Config{
		Counter:     counter,
		Store:       fileStore,
		Client:      httpclient.NewRotatingClient(rotator, cfg.Timeout),
		URLPattern:  cfg.URLPattern,
		FilePrefix:  cfg.FilePrefix,
		WorkerCount: cfg.Workers,
		Pipelined:   cfg.Pipelined,
	}), nil
}

// Run prepares the destination folder, determines the document total and downloads
// every missing document in [1, total).
//
// Cancelling ctx is treated as an operator interrupt: the run stops, the summary is
// still logged and no error is returned. Folder, index and filesystem failures are returned.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if _, err := s.store.Prepare(); err != nil {
		return summary, fmt.Errorf("prepare destination: %w", err)
	}

	total, err := s.counter.Count(ctx)
	if err != nil {
		if ctx.Err() != nil {
			summary.Interrupted = true
			log.Printf("User exited using CTRL-C")
			s.report(&summary)
			return summary, nil
		}
		return summary, fmt.Errorf("count documents: %w", err)
	}
	summary.Total = total
	log.Printf("Current total of published RFC's: %d", total)

	start := time.Now()
	stats, err := s.manager.ProcessRange(ctx, total)
	summary.Stats = stats
	summary.Elapsed = time.Since(start)

	switch {
	case ctx.Err() != nil:
		summary.Interrupted = true
		log.Printf("User exited using CTRL-C")
	case err != nil && !errors.Is(err, context.Canceled):
		s.report(&summary)
		return summary, fmt.Errorf("download documents: %w", err)
	default:
		log.Printf("This took: %s to run!", summary.Elapsed)
	}

	s.report(&summary)
	return summary, nil
}

// report logs the final file count, mirroring what is on disk at exit
func (s *Service) report(summary *Summary) {
	count, err := s.store.Count()
	if err != nil {
		log.Printf("Could not count files in %s: %v", s.store.Dir(), err)
		return
	}
	summary.FilesPresent = count
	log.Printf("Downloaded %d, already present %d, missing %d",
		summary.Stats.Downloaded, summary.Stats.AlreadyPresent, summary.Stats.Missing)
	log.Printf("Total number RFC text files: %d", count)
}
