package healthdata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a selection produced an empty result set.
	ErrNotFound = errors.New("not found")

	// ErrUnknownOperation means the requested tool name is not registered.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrParse matches every workbook parsing failure.
	ErrParse = errors.New("parse error")

	// ErrAcquisition matches every failure fetching the workbook.
	ErrAcquisition = errors.New("acquisition error")
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(format string, args ...any) error {
	return &notFoundError{msg: fmt.Sprintf(format, args...)}
}

// ParseError wraps any failure converting the workbook into a Dataset.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string        { return "failed to parse health workbook: " + e.Err.Error() }
func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// MissingSheetError names a required sheet absent from the workbook.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("%s sheet not found in workbook", e.Sheet)
}

// InvalidDateError reports a date cell in none of the accepted forms.
type InvalidDateError struct {
	Sheet string
	Row   int
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date format in %s row %d: %q", e.Sheet, e.Row, e.Value)
}

// AcquisitionError wraps a transport or auth failure fetching the workbook.
type AcquisitionError struct {
	Op  string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}
func (e *AcquisitionError) Unwrap() error        { return e.Err }
func (e *AcquisitionError) Is(target error) bool { return target == ErrAcquisition }
