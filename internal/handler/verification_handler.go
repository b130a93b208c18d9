package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seacrew/internal/csvexport"
	"seacrew/internal/middleware"
	"seacrew/internal/service"
)

// DefaultMaxUploadBytes caps a scanned file when no limit is configured.
const DefaultMaxUploadBytes int64 = 20 << 20

// VerificationHandler handles scan verification and history endpoints.
type VerificationHandler struct {
	verificationService service.VerificationService
	maxUploadBytes      int64
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService service.VerificationService, maxUploadBytes int64) *VerificationHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &VerificationHandler{verificationService: verificationService, maxUploadBytes: maxUploadBytes}
}

// Verify handles POST /api/v1/documents/:id/verify
// @Summary Verify a scanned document
// @Description Extract fields from a scan (upload or stored key), compare them with the record on file and append the attempt to the scan history
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Document ID"
// @Param file formData file false "Scanned file (PDF, JPG, or PNG)"
// @Param s3_key formData string false "Object key of a scan already in storage"
// @Param manual_number formData string false "Document number typed by the operator"
// @Param nationality formData string false "Nationality override for number rules"
// @Success 200 {object} Response{data=service.VerifyResult} "Verification completed"
// @Failure 400 {object} ErrorResponseBody "Missing scan or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Concurrent verification"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "Extraction failed"
// @Security BearerAuth
// @Router /documents/{id}/verify [post]
func (h *VerificationHandler) Verify(c *gin.Context) {
	documentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	input := &service.VerifyInput{
		DocumentID:   documentID,
		SourceKey:    strings.TrimSpace(c.PostForm("s3_key")),
		ManualNumber: c.PostForm("manual_number"),
		Nationality:  c.PostForm("nationality"),
		RequestedBy:  &userID,
	}

	file, header, err := c.Request.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		if header.Size > h.maxUploadBytes {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
			return
		}
		data, readErr := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
		if readErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
			return
		}
		if int64(len(data)) > h.maxUploadBytes {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
			return
		}
		input.FileBytes = data
		input.FileName = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
	case isBodyTooLarge(err):
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	case input.SourceKey == "":
		RespondError(c, http.StatusBadRequest, "MISSING_SCAN", "a file upload or s3_key is required")
		return
	}

	result, err := h.verificationService.VerifyDocument(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// ListScans handles GET /api/v1/documents/:id/scans
// @Summary List scan history
// @Description Scan attempts of a document, newest first
// @Tags verification
// @Produce json
// @Param id path string true "Document ID"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} Response{data=[]domain.ScanAttempt,meta=PagMeta} "Scan history"
// @Failure 400 {object} ErrorResponseBody "Invalid document ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/scans [get]
func (h *VerificationHandler) ListScans(c *gin.Context) {
	documentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	attempts, total, err := h.verificationService.ListScans(c.Request.Context(), documentID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, attempts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetActiveScan handles GET /api/v1/documents/:id/scans/active
// @Summary Get the active scan
// @Description The current scan attempt of a document with a presigned image link
// @Tags verification
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=service.ActiveScan} "Active scan"
// @Failure 404 {object} ErrorResponseBody "Document or scan not found"
// @Security BearerAuth
// @Router /documents/{id}/scans/active [get]
func (h *VerificationHandler) GetActiveScan(c *gin.Context) {
	documentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	active, err := h.verificationService.GetActiveScan(c.Request.Context(), documentID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, active)
}

// ExportScans handles GET /api/v1/documents/:id/scans/export
// @Summary Export scan history
// @Description Download the full scan history of a document as CSV or XLSX
// @Tags verification
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Document ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Scan history export"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/scans/export [get]
func (h *VerificationHandler) ExportScans(c *gin.Context) {
	documentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	attempts, err := h.verificationService.ExportScans(c.Request.Context(), documentID)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = csvexport.WriteXLSX(&buf, attempts)
	} else {
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err = w.WriteHeader(); err == nil {
			err = w.WriteAttempts(attempts)
		}
		w.Flush()
		if err == nil {
			err = w.Error()
		}
	}
	if err != nil {
		log.Printf("VerificationHandler.ExportScans: document %s: %v", documentID, err)
		RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "could not build export")
		return
	}

	filename := fmt.Sprintf("scans-%s.%s", documentID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
