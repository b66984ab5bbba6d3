package parser

import (
	"errors"
	"fmt"
)

// ErrReportMissing indicates the coverage report file does not exist at
// verification time. Callers match it with errors.Is.
var ErrReportMissing = errors.New("coverage report was not generated")

// UnsupportedFormatError is returned for an unrecognized coverage type or
// report file extension.
type UnsupportedFormatError struct {
	Value string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported coverage report type: %q", e.Value)
}

// MalformedReportError indicates a report that could be opened but not
// understood: invalid XML or JSON, missing CSV columns, unparsable
// numeric fields.
type MalformedReportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed coverage report %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed coverage report %s: %s", e.Path, e.Reason)
}

func (e *MalformedReportError) Unwrap() error {
	return e.Err
}
