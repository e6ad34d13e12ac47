package ptrboard

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the requested file does not exist in the store.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input bytes are not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrHeaderNotFound indicates the header marker was not found in the scan window.
var ErrHeaderNotFound = errors.New("header row not found")

// ErrMissingColumn indicates a column required by an operation is absent.
var ErrMissingColumn = errors.New("missing column")

// ErrFormatMismatch indicates the sheet shape is not recognized.
var ErrFormatMismatch = errors.New("file format not recognized")

// ErrTransfer indicates a remote download failed or was incomplete.
var ErrTransfer = errors.New("transfer failed")

// ErrSheetNotFound indicates the workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// HeaderNotFoundError reports a missing header marker.
type HeaderNotFoundError struct {
	Marker  string
	Scanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header %q not found in the first %d rows", e.Marker, e.Scanned)
}

func (e *HeaderNotFoundError) Unwrap() error {
	return ErrHeaderNotFound
}

// MissingColumnError reports a column absent for an operation.
type MissingColumnError struct {
	Column    string
	Operation string // "percentages", "flow", "normalize"
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not found", e.Operation, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// FormatMismatchError reports a sheet the flow graph cannot be built from.
type FormatMismatchError struct {
	Version string
	Err     error
}

func (e *FormatMismatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v (version %q)", ErrFormatMismatch, e.Version)
	}
	return fmt.Sprintf("%v (version %q): %v", ErrFormatMismatch, e.Version, e.Err)
}

func (e *FormatMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFormatMismatch}
	}
	return []error{ErrFormatMismatch, e.Err}
}

// TransferError reports a failed or incomplete download.
type TransferError struct {
	FileID string
	Offset int64
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("download of %q failed at byte %d: %v", e.FileID, e.Offset, e.Err)
}

func (e *TransferError) Unwrap() []error {
	return []error{ErrTransfer, e.Err}
}

// MissingSheetError reports an unknown sheet name.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("sheet %q not found", e.Sheet)
}

func (e *MissingSheetError) Unwrap() error {
	return ErrSheetNotFound
}

// NewMissingColumnError creates a new MissingColumnError.
func NewMissingColumnError(operation, column string) *MissingColumnError {
	return &MissingColumnError{
		Column:    column,
		Operation: operation,
	}
}

// IsRecoverable reports whether err rejects only the current selection
// (file, sheet or version) rather than signalling a broken service.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrHeaderNotFound) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrFormatMismatch) ||
		errors.Is(err, ErrTransfer) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrInvalidFormat)
}
