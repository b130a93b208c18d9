package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seacrew/internal/service"
)

// RecordHandler handles crew member and document-on-file endpoints.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// CreateCrewMember handles POST /api/v1/crew-members
// @Summary Register a crew member
// @Tags records
// @Accept json
// @Produce json
// @Param body body CreateCrewMemberRequest true "Crew member"
// @Success 201 {object} Response{data=domain.CrewMember} "Crew member created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /crew-members [post]
func (h *RecordHandler) CreateCrewMember(c *gin.Context) {
	var input service.CreateCrewMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	member, err := h.recordService.CreateCrewMember(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, member)
}

// GetCrewMember handles GET /api/v1/crew-members/:id
// @Summary Get a crew member
// @Tags records
// @Produce json
// @Param id path string true "Crew member ID"
// @Success 200 {object} Response{data=domain.CrewMember} "Crew member"
// @Failure 404 {object} ErrorResponseBody "Crew member not found"
// @Security BearerAuth
// @Router /crew-members/{id} [get]
func (h *RecordHandler) GetCrewMember(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	member, err := h.recordService.GetCrewMember(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, member)
}

// ListDocuments handles GET /api/v1/crew-members/:id/documents
// @Summary List a crew member's documents
// @Tags records
// @Produce json
// @Param id path string true "Crew member ID"
// @Success 200 {object} Response{data=[]domain.DocumentRecord} "Documents on file"
// @Failure 404 {object} ErrorResponseBody "Crew member not found"
// @Security BearerAuth
// @Router /crew-members/{id}/documents [get]
func (h *RecordHandler) ListDocuments(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	records, err := h.recordService.ListDocuments(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, records)
}

// CreateDocument handles POST /api/v1/documents
// @Summary Put a document on file
// @Description Dates accept any format the date normalizer understands
// @Tags records
// @Accept json
// @Produce json
// @Param body body CreateDocumentRequest true "Document on file"
// @Success 201 {object} Response{data=domain.DocumentRecord} "Document created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Holder not found"
// @Security BearerAuth
// @Router /documents [post]
func (h *RecordHandler) CreateDocument(c *gin.Context) {
	var input service.CreateDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	record, err := h.recordService.CreateDocument(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, record)
}

// GetDocument handles GET /api/v1/documents/:id
// @Summary Get a document on file
// @Tags records
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=domain.DocumentRecord} "Document"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *RecordHandler) GetDocument(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	record, err := h.recordService.GetDocument(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, record)
}
