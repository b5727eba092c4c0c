package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rfc-mirror/pkg/config"
	"rfc-mirror/pkg/rfcdownloadservice"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Optional YAML config file")
		dest        = flag.String("dest", "", "Destination folder (default ~/code/test/RFC)")
		workers     = flag.Int("workers", 10, "Maximum number of in-flight document requests")
		pipeline    = flag.Bool("pipeline", false, "Keep several requests in flight instead of waiting for each one")
		countSource = flag.String("count-source", "table", "How to determine the document total: table, feed or max")
	)
	flag.Parse()

	cfg, err := config.Default()
	if err != nil {
		log.Fatalf("Failed to build default config: %v", err)
	}
	if *configPath != "" {
		cfg, err = config.LoadFromFile(cfg, *configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	cfg, err = config.ApplyEnv(cfg)
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dest":
			cfg.DestDir = *dest
		case "workers":
			cfg.Workers = *workers
		case "pipeline":
			cfg.Pipelined = *pipeline
		case "count-source":
			cfg.CountSource = *countSource
		}
	})

	service, err := rfcdownloadservice.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Mirroring RFCs into %s (workers=%d, pipeline=%t)", cfg.DestDir, cfg.Workers, cfg.Pipelined)
	if _, err := service.Run(ctx); err != nil {
		stop()
		log.Fatalf("RFC download failed: %v", err)
	}
}
