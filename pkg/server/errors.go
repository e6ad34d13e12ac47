package server

import (
	"errors"
	"net/http"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
	"github.com/ukaji3/ptrboard-go/pkg/auth"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/render"
)

// ErrBadRequest is reported for malformed request bodies or parameters.
var ErrBadRequest = errors.New("bad request")

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest         = "bad_request"
	CodeValidation         = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeAccountNotFound    = "account_not_found"
	CodeFileNotFound       = "file_not_found"
	CodeSheetNotFound      = "sheet_not_found"
	CodeHeaderNotFound     = "header_not_found"
	CodeFormatMismatch     = "format_mismatch"
	CodeMissingColumn      = "missing_column"
	CodeInvalidFormat      = "invalid_format"
	CodeTransfer           = "transfer_failed"
	CodeNoData             = "no_data"
	CodeInternal           = "internal"
)

// errorResponse is the JSON body of every error.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps an error to its HTTP status and code.
// Format mismatches are checked before missing columns since they wrap one.
func classify(err error) (int, string) {
	var verr *accounts.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidCredentials
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMalformedAuthHeader):
		return http.StatusUnauthorized, CodeUnauthenticated
	case errors.Is(err, accounts.ErrAccountNotFound):
		return http.StatusNotFound, CodeAccountNotFound
	case errors.Is(err, ptrboard.ErrFileNotFound):
		return http.StatusNotFound, CodeFileNotFound
	case errors.Is(err, ptrboard.ErrSheetNotFound):
		return http.StatusNotFound, CodeSheetNotFound
	case errors.Is(err, ptrboard.ErrHeaderNotFound):
		return http.StatusUnprocessableEntity, CodeHeaderNotFound
	case errors.Is(err, ptrboard.ErrFormatMismatch):
		return http.StatusUnprocessableEntity, CodeFormatMismatch
	case errors.Is(err, ptrboard.ErrMissingColumn):
		return http.StatusUnprocessableEntity, CodeMissingColumn
	case errors.Is(err, ptrboard.ErrInvalidFormat):
		return http.StatusUnprocessableEntity, CodeInvalidFormat
	case errors.Is(err, render.ErrNoData):
		return http.StatusUnprocessableEntity, CodeNoData
	case errors.Is(err, ptrboard.ErrTransfer):
		return http.StatusBadGateway, CodeTransfer
	}
	return http.StatusInternalServerError, CodeInternal
}
