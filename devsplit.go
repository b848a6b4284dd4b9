package devsplit

import "strings"

// Format identifies the file format used for partitioned device files.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// Default configuration values.
const (
	DefaultOutputDir    = "device_data"
	DefaultDeviceColumn = "device"
	DefaultFormat       = FormatCSV
)

// ParseFormat converts a format name into a Format. Matching is
// case-insensitive, so "CSV", "Json" and "excel" are all accepted.
// Unknown names return an *UnsupportedFormatError.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatExcel:
		return FormatExcel, nil
	default:
		return "", &UnsupportedFormatError{Format: s}
	}
}

// Ext returns the file extension used for device files written in this
// format, including the leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatExcel:
		return ".xlsx"
	default:
		return ".csv"
	}
}
