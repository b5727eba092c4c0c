package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rfc-mirror/pkg/domain"
	"rfc-mirror/pkg/httpclient"
)

// DefaultURLPattern is the document URL with a %d placeholder for the number
const DefaultURLPattern = "https://www.rfc-editor.org/rfc/rfc%d.txt"

// Outcome is what happened to a single document
type Outcome int

const (
	// Missing means the document could not be fetched (non-200 or transport error)
	Missing Outcome = iota
	// Downloaded means a new file was written
	Downloaded
	// AlreadyPresent means the document was fetched but a file for it already existed
	AlreadyPresent
)

// DocumentStore persists fetched documents, skipping ones already stored
type DocumentStore interface {
	Save(id domain.DocumentID, text string) (bool, error)
}

// Worker fetches a single document and hands successful responses to the store
type Worker struct {
	client     *httpclient.HTTPClient
	store      DocumentStore
	urlPattern string
	prefix     string
}

// NewWorker creates a new worker
func NewWorker(client *httpclient.HTTPClient, store DocumentStore, urlPattern, prefix string) *Worker {
	if urlPattern == "" {
		urlPattern = DefaultURLPattern
	}
	if prefix == "" {
		prefix = domain.DefaultFilePrefix
	}
	return &Worker{
		client:     client,
		store:      store,
		urlPattern: urlPattern,
		prefix:     prefix,
	}
}

// URL builds the document URL for id
func (w *Worker) URL(id domain.DocumentID) string {
	return fmt.Sprintf(w.urlPattern, int(id))
}

// Fetch requests a document. Non-200 responses and transport failures become a Miss record;
// only a cancelled context is returned as an error.
func (w *Worker) Fetch(ctx context.Context, id domain.DocumentID) (domain.DocumentRecord, error) {
	record := domain.DocumentRecord{ID: id, Status: domain.Miss}

	text, err := w.client.GetText(ctx, w.URL(id))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return record, ctxErr
		}
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			record.Reason = fmt.Sprintf("status %d", statusErr.StatusCode)
		} else {
			record.Reason = err.Error()
		}
		return record, nil
	}

	record.Content = text
	record.Status = domain.Success
	return record, nil
}

// ProcessID fetches one document and persists it if it is not stored yet.
// The returned error is fatal for the run (filesystem failure or cancellation).
func (w *Worker) ProcessID(ctx context.Context, id domain.DocumentID) (Outcome, error) {
	record, err := w.Fetch(ctx, id)
	if err != nil {
		return Missing, err
	}

	label := domain.Label(w.prefix, id)
	if record.Status != domain.Success {
		log.Printf("%s DOES NOT EXIST (%s)", label, record.Reason)
		return Missing, nil
	}

	written, err := w.store.Save(id, record.Content)
	if err != nil {
		return Missing, fmt.Errorf("failed to save %s: %w", label, err)
	}
	if !written {
		return AlreadyPresent, nil
	}

	log.Printf("%s downloaded!", label)
	return Downloaded, nil
}
