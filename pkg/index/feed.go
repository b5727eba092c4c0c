package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"rfc-mirror/pkg/httpclient"

	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the RFC editor's feed of recently published documents
const DefaultFeedURL = "https://www.rfc-editor.org/rfcrss.xml"

// ErrEmptyFeed is returned when no item of the feed names a document number
var ErrEmptyFeed = errors.New("feed contains no numbered documents")

var rfcNumberPattern = regexp.MustCompile(`(?i)rfc[\s-]*(\d+)`)

// FeedCounter derives the bound from the highest document number in the RSS feed.
// It returns highest+1 so the newest document falls inside the exclusive range.
type FeedCounter struct {
	client     *httpclient.HTTPClient
	feedParser *gofeed.Parser
	feedURL    string
}

// NewFeedCounter creates a counter for the given feed URL
func NewFeedCounter(feedURL string) *FeedCounter {
	return &FeedCounter{
		client:     httpclient.NewClient(httpclient.BrowserClient),
		feedParser: gofeed.NewParser(),
		feedURL:    feedURL,
	}
}

// Count fetches and parses the feed
func (c *FeedCounter) Count(ctx context.Context) (int, error) {
	body, err := c.client.GetText(ctx, c.feedURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := c.feedParser.ParseString(body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	highest := HighestNumber(feed)
	if highest == 0 {
		return 0, ErrEmptyFeed
	}

	log.Printf("FeedCounter: newest document in %s is %d", c.feedURL, highest)
	return highest + 1, nil
}

// HighestNumber returns the largest document number named by any feed item title or link
func HighestNumber(feed *gofeed.Feed) int {
	if feed == nil {
		return 0
	}

	highest := 0
	for _, item := range feed.Items {
		for _, field := range []string{item.Title, item.Link} {
			if n := parseNumber(field); n > highest {
				highest = n
			}
		}
	}
	return highest
}

func parseNumber(s string) int {
	match := rfcNumberPattern.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// MaxCounter returns the largest bound reported by any of its counters.
// Counters that fail are logged and skipped; it fails only when all of them fail.
type MaxCounter struct {
	counters []Counter
}

// NewMaxCounter combines counters
func NewMaxCounter(counters ...Counter) *MaxCounter {
	return &MaxCounter{counters: counters}
}

// Count runs every counter in order
func (c *MaxCounter) Count(ctx context.Context) (int, error) {
	best := 0
	var errs []error

	for _, counter := range c.counters {
		n, err := counter.Count(ctx)
		if err != nil {
			log.Printf("MaxCounter: counter failed: %v", err)
			errs = append(errs, err)
			continue
		}
		if n > best {
			best = n
		}
	}

	if best == 0 && len(errs) > 0 {
		return 0, fmt.Errorf("all counters failed: %w", errors.Join(errs...))
	}
	return best, nil
}
