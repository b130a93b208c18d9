package handler

import (
	"github.com/google/uuid"

	"seacrew/internal/domain"
)

// Swagger type definitions for API documentation.

// CreateCrewMemberRequest represents the create crew member request body.
type CreateCrewMemberRequest struct {
	FullName    string `json:"full_name" binding:"required" example:"RAVI KUMAR"`
	Nationality string `json:"nationality" example:"India"`
}

// CreateDocumentRequest represents the create document request body.
type CreateDocumentRequest struct {
	HolderCrewMemberID uuid.UUID           `json:"holder_crew_member_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Type               domain.DocumentType `json:"type" binding:"required" example:"passport"`
	DocumentNumber     string              `json:"document_number" example:"U2701560"`
	IssuingAuthority   string              `json:"issuing_authority" example:"MUMBAI"`
	IssueDate          string              `json:"issue_date" example:"12/03/2019"`
	ExpiryDate         string              `json:"expiry_date" example:"11 MAR 2029"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
