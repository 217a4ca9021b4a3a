package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_017"
)

// Highlighting pipeline error codes.
const (
	// ErrCodeInput covers a missing file, sheet or column and unreadable
	// workbooks. Always fatal for the run.
	ErrCodeInput ErrorCode = "HL_001"
	// ErrCodeRecognition is a recognizer failure for one text unit.
	ErrCodeRecognition ErrorCode = "HL_002"
	// ErrCodeRecognitionTimeout is a recognizer call that exceeded its deadline.
	ErrCodeRecognitionTimeout ErrorCode = "HL_003"
	// ErrCodeOffsetMismatch is an entity whose remapped span does not match its text.
	ErrCodeOffsetMismatch ErrorCode = "HL_004"
	// ErrCodeUnknownLabel is a label with no palette entry.
	ErrCodeUnknownLabel ErrorCode = "HL_005"
	// ErrCodeCellBounds is an entity span that leaves its cell's text.
	ErrCodeCellBounds ErrorCode = "HL_006"
)

// Aliases used throughout the code base.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Kind groups error codes into the buckets reported by the end-of-run summary.
type Kind string

const (
	KindInput          Kind = "input"
	KindRecognition    Kind = "recognition"
	KindOffsetMismatch Kind = "offset_mismatch"
	KindUnknownLabel   Kind = "unknown_label"
	KindCellBounds     Kind = "cell_bounds"
	KindOther          Kind = "other"
)

// KindForCode maps an ErrorCode to its summary bucket. Timeouts are a flavour
// of recognition failure.
func KindForCode(code ErrorCode) Kind {
	switch code {
	case ErrCodeInput:
		return KindInput
	case ErrCodeRecognition, ErrCodeRecognitionTimeout:
		return KindRecognition
	case ErrCodeOffsetMismatch:
		return KindOffsetMismatch
	case ErrCodeUnknownLabel:
		return KindUnknownLabel
	case ErrCodeCellBounds:
		return KindCellBounds
	default:
		return KindOther
	}
}

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusInternalServerError,

	ErrCodeInput:              http.StatusBadRequest,
	ErrCodeRecognition:        http.StatusBadGateway,
	ErrCodeRecognitionTimeout: http.StatusGatewayTimeout,
	ErrCodeOffsetMismatch:     http.StatusUnprocessableEntity,
	ErrCodeUnknownLabel:       http.StatusUnprocessableEntity,
	ErrCodeCellBounds:         http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "object storage error",

	ErrCodeInput:              "invalid input",
	ErrCodeRecognition:        "entity recognition failed",
	ErrCodeRecognitionTimeout: "entity recognition timed out",
	ErrCodeOffsetMismatch:     "entity offsets do not match original text",
	ErrCodeUnknownLabel:       "entity label has no palette entry",
	ErrCodeCellBounds:         "entity span outside cell text",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
