package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"rfc-mirror/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// DefaultIndexURL is the RFC editor's full index page
const DefaultIndexURL = "https://www.rfc-editor.org/rfc-index.html"

// DocumentTableIndex is the position of the document table among all tables on the index page
const DocumentTableIndex = 2

// ErrTableNotFound is returned when the index page has too few tables
var ErrTableNotFound = errors.New("document table not found in index page")

// Counter determines the exclusive upper bound of document numbers to attempt
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// TableCounter counts the rows of the document table on the index page
type TableCounter struct {
	client   *httpclient.HTTPClient
	indexURL string
}

// NewTableCounter creates a counter for the given index page URL
func NewTableCounter(indexURL string) *TableCounter {
	return NewTableCounterWithClient(indexURL, httpclient.NewClient(httpclient.DefaultClient))
}

// NewTableCounterWithClient creates a counter that fetches with the given client
func NewTableCounterWithClient(indexURL string, client *httpclient.HTTPClient) *TableCounter {
	return &TableCounter{
		client:   client,
		indexURL: indexURL,
	}
}

// Count fetches the index page once and returns the row count of its document table.
// Fetch and parse failures are returned as-is; the caller treats them as fatal.
func (c *TableCounter) Count(ctx context.Context) (int, error) {
	html, err := c.client.GetText(ctx, c.indexURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch index page: %w", err)
	}

	total, err := CountTableRows(strings.NewReader(html))
	if err != nil {
		return 0, err
	}

	log.Printf("TableCounter: %d rows in document table of %s", total, c.indexURL)
	return total, nil
}

// CountTableRows parses HTML and counts the tr elements of the third table in document order
func CountTableRows(r io.Reader) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	tables := doc.Find("table")
	if tables.Length() <= DocumentTableIndex {
		return 0, fmt.Errorf("%w: found %d tables", ErrTableNotFound, tables.Length())
	}

	return tables.Eq(DocumentTableIndex).Find("tr").Length(), nil
}

// Count sources accepted by NewCounter
const (
	SourceTable = "table"
	SourceFeed  = "feed"
	SourceMax   = "max"
)

// NewCounter builds the counter for a count source name
func NewCounter(source, indexURL, feedURL string) (Counter, error) {
	switch source {
	case "", SourceTable:
		return NewTableCounter(indexURL), nil
	case SourceFeed:
		return NewFeedCounter(feedURL), nil
	case SourceMax:
		return NewMaxCounter(NewTableCounter(indexURL), NewFeedCounter(feedURL)), nil
	default:
		return nil, fmt.Errorf("unknown count source %q", source)
	}
}
