package model

import "time"

// Document is the metadata record of an uploaded PDF. The binary payload is
// stored separately in the blob store under the same id, so this struct never
// carries document content.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadDate time.Time `json:"uploadDate"`
	// AssociatedQuizID is reserved before generation completes, so it may
	// reference a quiz that does not exist yet (generation in flight or
	// failed). That transient inconsistency is accepted.
	AssociatedQuizID string `json:"associatedQuizId,omitempty"`
}
