package devsplit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySelection is returned by [Splitter.Run] when a device allow-list
// was supplied but none of its entries appear in the device column. It marks
// a no-op outcome, not a malformed input: the dataset loaded fine and there
// was simply nothing to write. Callers that treat "nothing selected" as
// acceptable should check for it with errors.Is and carry on.
var ErrEmptySelection = errors.New("devsplit: no devices match the requested selection")

// UnsupportedFormatError reports a file format that the library cannot read
// or write. Format holds the offending format name or file extension.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("devsplit: unsupported format %q (supported: csv, json, excel)", e.Format)
}

// MissingColumnError reports a required column that is absent from the
// loaded dataset. Available lists the columns that were found, in dataset
// order.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("devsplit: column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// ParseError reports a failure to read or parse an input file. It wraps the
// underlying I/O or decoding error.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("devsplit: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
