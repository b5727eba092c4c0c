package domain

import "fmt"

// DocumentID is the number of an RFC document (1, 2, ... 9999+)
type DocumentID int

// Status is the outcome of fetching a single document
type Status int

const (
	// Miss means the server did not return the document (non-200 or transport failure)
	Miss Status = iota
	// Success means the server returned the document body with status 200
	Success
)

// String returns a human readable status
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	default:
		return "miss"
	}
}

// DocumentRecord is the transient result of fetching one document.
// It is never stored as a structure; a successful record becomes a file.
type DocumentRecord struct {
	ID      DocumentID
	Content string
	Status  Status
	// Reason holds why the fetch was a miss (status code or transport error)
	Reason string
}

// DefaultFilePrefix is the prefix used for stored document file names
const DefaultFilePrefix = "RFC"

// FileName derives the stored file name for a document, e.g. RFC-0042.txt.
// Numbers are zero padded to four digits; larger numbers keep all their digits
// so the mapping stays injective.
func FileName(prefix string, id DocumentID) string {
	return fmt.Sprintf("%s-%04d.txt", prefix, int(id))
}

// Label returns the operator facing label of a document, e.g. "RFC 0042"
func Label(prefix string, id DocumentID) string {
	return fmt.Sprintf("%s %04d", prefix, int(id))
}
