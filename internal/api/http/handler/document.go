package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
	"github.com/smartquiz/smartquiz-server/internal/service"
	"github.com/smartquiz/smartquiz-server/internal/viewer"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 50
)

// quizGenerator produces questions from a stored document representation.
type quizGenerator interface {
	Generate(ctx context.Context, content []byte, count int) ([]model.Question, error)
}

// DocumentHandler serves document upload, listing and content delivery.
type DocumentHandler struct {
	store        *service.Store
	generator    quizGenerator
	logger       *logger.Logger
	maxSizeBytes int64

	// uploading guards against a second upload starting while one is in
	// flight, mirroring the disabled-while-processing upload control.
	uploading atomic.Bool
}

// NewDocumentHandler creates a DocumentHandler. maxSizeBytes caps accepted
// upload size.
func NewDocumentHandler(store *service.Store, generator quizGenerator, maxSizeBytes int64, logger *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		store:        store,
		generator:    generator,
		logger:       logger,
		maxSizeBytes: maxSizeBytes,
	}
}

type documentResponse struct {
	model.Document
	HasQuiz bool `json:"hasQuiz"`
}

// List returns document metadata. HasQuiz is computed against the stored
// quiz set so a document whose generation failed is distinguishable from one
// with a ready quiz.
func (h *DocumentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	docs, err := h.store.Documents(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	quizzes, err := h.store.Quizzes(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	quizIDs := make(map[string]bool, len(quizzes))
	for _, q := range quizzes {
		quizIDs[q.ID] = true
	}

	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentResponse{Document: d, HasQuiz: quizIDs[d.AssociatedQuizID]}
	}
	c.JSON(http.StatusOK, out)
}

// Upload accepts a PDF, stores it (blob first, then metadata), generates a
// quiz from it and stores the quiz. The quiz id is reserved before
// generation, so a generation failure leaves a document whose
// associatedQuizId resolves to nothing; the document is kept and the failure
// surfaced.
func (h *DocumentHandler) Upload(c *gin.Context) {
	if !h.uploading.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "another upload is already in progress"})
		return
	}
	defer h.uploading.Store(false)

	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, fmt.Errorf("%w: missing file field", model.ErrValidationFailed))
		return
	}

	if err := h.validateUpload(fileHeader.Header.Get("Content-Type"), fileHeader.Filename, fileHeader.Size); err != nil {
		writeError(c, err)
		return
	}

	count := defaultQuestionCount
	if raw := c.PostForm("questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxQuestionCount {
			writeError(c, fmt.Errorf("%w: questions must be between 1 and %d", model.ErrValidationFailed, maxQuestionCount))
			return
		}
		count = n
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, h.maxSizeBytes+1))
	if err != nil {
		writeError(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if int64(len(raw)) > h.maxSizeBytes {
		writeError(c, fmt.Errorf("%w: file exceeds %d MB limit", model.ErrValidationFailed, h.maxSizeBytes/(1024*1024)))
		return
	}

	// Stored representation matches what the generator and viewer expect.
	content := []byte("data:application/pdf;base64," + base64.StdEncoding.EncodeToString(raw))

	quizID := "quiz-" + uuid.NewString()
	doc := model.Document{
		ID:               "doc-" + uuid.NewString(),
		Name:             fileHeader.Filename,
		UploadDate:       time.Now().UTC(),
		AssociatedQuizID: quizID,
	}

	if err := h.store.AddDocument(ctx, doc, content); err != nil {
		writeError(c, err)
		return
	}

	questions, err := h.generator.Generate(ctx, content, count)
	if err != nil {
		h.logger.Error("quiz generation failed, document kept",
			"document_id", doc.ID, "quiz_id", quizID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      err.Error(),
			"documentId": doc.ID,
		})
		return
	}

	quiz := model.Quiz{
		ID:             quizID,
		Title:          fileHeader.Filename + " 专项练习",
		SourceFileName: fileHeader.Filename,
		CreatedAt:      time.Now().UTC(),
		Questions:      questions,
	}
	if err := h.store.AddQuiz(ctx, quiz); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"document": doc,
		"quiz":     quiz,
	})
}

// Content serves the decoded document bytes for inline rendering. The
// materialized handle is released on every exit path.
func (h *DocumentHandler) Content(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.store.Document(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	v := viewer.New(h.store, h.logger)
	handle, err := v.Open(ctx, doc.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer handle.Release()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Name))
	c.Data(http.StatusOK, handle.MIMEType(), handle.Bytes())
}

// validateUpload enforces the upload policy before any storage or network
// operation: PDF only, size capped.
func (h *DocumentHandler) validateUpload(contentType, filename string, size int64) error {
	isPDF := contentType == "application/pdf" ||
		(contentType == "" && strings.HasSuffix(strings.ToLower(filename), ".pdf"))
	if !isPDF {
		return fmt.Errorf("%w: only PDF files are accepted", model.ErrValidationFailed)
	}
	if size > h.maxSizeBytes {
		return fmt.Errorf("%w: file exceeds %d MB limit", model.ErrValidationFailed, h.maxSizeBytes/(1024*1024))
	}
	return nil
}
