package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"rfc-mirror/pkg/index"
)

func main() {
	var (
		indexURL = flag.String("index", index.DefaultIndexURL, "RFC index page URL")
		feedURL  = flag.String("feed", index.DefaultFeedURL, "RFC RSS feed URL")
		timeout  = flag.Duration("timeout", time.Minute, "Overall timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tableTotal, err := index.NewTableCounter(*indexURL).Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count index table: %v", err)
	}
	fmt.Printf("Index table rows: %d (documents 1-%d will be attempted)\n", tableTotal, tableTotal-1)

	feedTotal, err := index.NewFeedCounter(*feedURL).Count(ctx)
	if err != nil {
		log.Printf("Feed unavailable: %v", err)
		return
	}
	fmt.Printf("Newest document in feed: %d\n", feedTotal-1)

	if feedTotal > tableTotal {
		fmt.Printf("Table bound misses %d document(s); run with -count-source max\n", feedTotal-tableTotal)
	}
}
