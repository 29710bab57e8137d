// Package viewer reconstructs renderable document content from stored blob
// data, managing the materialized resource's lifecycle so it is released
// exactly once.
package viewer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
)

const defaultMIMEType = "application/pdf"

// ContentSource provides stored document payloads. The store façade
// implements it.
type ContentSource interface {
	DocumentContent(ctx context.Context, id string) ([]byte, error)
}

// Handle is a materialized renderable resource. It is a scoped acquisition:
// the holder must call Release on every exit path. Bytes must not be used
// after Release.
type Handle struct {
	mimeType string

	mu   sync.Mutex
	once sync.Once
	data []byte
}

// Bytes returns the decoded document content.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

// MIMEType returns the content type parsed from the stored representation,
// defaulting to application/pdf.
func (h *Handle) MIMEType() string {
	return h.mimeType
}

// Size returns the decoded content length in bytes.
func (h *Handle) Size() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int64(len(h.data))
}

// Release drops the handle's content reference. Releasing more than once is
// a no-op.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.mu.Lock()
		h.data = nil
		h.mu.Unlock()
	})
}

// Viewer materializes handles from stored blobs. At most one handle is live
// per viewer: opening a new document releases the previous handle first.
type Viewer struct {
	source ContentSource
	logger *logger.Logger

	mu      sync.Mutex
	current *Handle
}

// New creates a viewer over the given content source.
func New(source ContentSource, logger *logger.Logger) *Viewer {
	return &Viewer{
		source: source,
		logger: logger,
	}
}

// Open reads the document's stored payload and decodes it into a renderable
// handle. Returns model.ErrNotFound when no blob exists for the id and
// model.ErrDecodeFailed when the stored representation cannot be decoded.
func (v *Viewer) Open(ctx context.Context, documentID string) (*Handle, error) {
	raw, err := v.source.DocumentContent(ctx, documentID)
	if err != nil {
		return nil, err
	}

	data, mimeType, err := decode(raw)
	if err != nil {
		return nil, err
	}

	handle := &Handle{data: data, mimeType: mimeType}

	v.mu.Lock()
	if v.current != nil {
		v.current.Release()
	}
	v.current = handle
	v.mu.Unlock()

	return handle, nil
}

// Close releases the currently open handle, if any. Safe to call on
// teardown regardless of load completion state.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current != nil {
		v.current.Release()
		v.current = nil
	}
}

// decode turns the stored representation into raw bytes and a MIME type.
// The representation is either a base64 data URI or raw bytes; the MIME type
// comes from the URI prefix and falls back to application/pdf.
func decode(raw []byte) ([]byte, string, error) {
	s := string(raw)
	if !strings.HasPrefix(s, "data:") {
		return raw, defaultMIMEType, nil
	}

	comma := strings.Index(s, ",")
	if comma < 0 {
		return nil, "", fmt.Errorf("%w: data URI has no payload separator", model.ErrDecodeFailed)
	}

	header := s[len("data:"):comma]
	mimeType := header
	if i := strings.Index(header, ";"); i >= 0 {
		mimeType = header[:i]
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	data, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrDecodeFailed, err)
	}

	return data, mimeType, nil
}
