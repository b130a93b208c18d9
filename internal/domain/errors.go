package domain

import "errors"

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrCrewMemberNotFound     = errors.New("crew member not found")
	ErrScanAttemptNotFound    = errors.New("scan attempt not found")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrMissingScanSource      = errors.New("no scanned file or storage key supplied")
	ErrExtractionFailed       = errors.New("document extraction failed")
	ErrConcurrentSupersession = errors.New("active scan attempt changed concurrently")
	ErrInvalidRuleTable       = errors.New("invalid nationality rule table")
)
