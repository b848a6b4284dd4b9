package devsplit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Splitter partitions a tabular dataset by the distinct values of a device
// column, writing one output file per device. Configure it with method
// chaining, then call Run:
//
//	stats, err := devsplit.NewSplitter("device_log.csv").
//	    WithOutputDir("filtered_devices").
//	    WithFormat(devsplit.FormatJSON).
//	    Run(ctx)
//
// Every row with the same device value lands in exactly one output file, and
// the per-device record counts in the returned [Stats] sum to the number of
// selected input rows.
type Splitter struct {
	input        string
	outputDir    string
	deviceColumn string
	format       Format
	devices      []string
	logger       *slog.Logger
}

// NewSplitter creates a Splitter for the given input file with default
// configuration: output to [DefaultOutputDir], partitioned on
// [DefaultDeviceColumn], written as [DefaultFormat].
func NewSplitter(inputFile string) *Splitter {
	return &Splitter{
		input:        inputFile,
		outputDir:    DefaultOutputDir,
		deviceColumn: DefaultDeviceColumn,
		format:       DefaultFormat,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithOutputDir sets the directory device files are written to. The
// directory and its parents are created on Run if absent. Empty values are
// ignored.
func (s *Splitter) WithOutputDir(dir string) *Splitter {
	if dir != "" {
		s.outputDir = dir
	}
	return s
}

// WithDeviceColumn sets the column whose distinct values define the
// partition. Empty values are ignored.
func (s *Splitter) WithDeviceColumn(column string) *Splitter {
	if column != "" {
		s.deviceColumn = column
	}
	return s
}

// WithFormat sets the output file format. The value is validated on Run, so
// formats built from user input can be passed through directly; matching is
// case-insensitive.
func (s *Splitter) WithFormat(format Format) *Splitter {
	s.format = format
	return s
}

// WithDevices restricts the run to the listed device keys. Keys that do not
// occur in the device column are ignored; if none occur, Run returns
// [ErrEmptySelection]. An empty list means all devices.
func (s *Splitter) WithDevices(devices ...string) *Splitter {
	s.devices = devices
	return s
}

// WithLogger sets the logger used for per-device progress. The default
// discards all output.
func (s *Splitter) WithLogger(logger *slog.Logger) *Splitter {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Run loads the input, partitions it, and writes one file per device named
// device_<key> with path separators in the key replaced by underscores.
// Files are written sequentially in first-seen key order; a file already
// present at a target path is overwritten.
//
// Errors are typed: *UnsupportedFormatError for a bad format, *ParseError
// for unreadable input, *MissingColumnError when the device column is
// absent, and ErrEmptySelection when an allow-list matches nothing. On
// error no further files are written, but files from earlier iterations
// remain on disk.
func (s *Splitter) Run(ctx context.Context) (*Stats, error) {
	format, err := ParseFormat(string(s.format))
	if err != nil {
		return nil, err
	}

	df, err := Load(s.input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	if !slices.Contains(df.Names(), s.deviceColumn) {
		return nil, &MissingColumnError{Column: s.deviceColumn, Available: df.Names()}
	}

	keys, byKey := deviceGroups(df.Col(s.deviceColumn).Records())

	if len(s.devices) > 0 {
		keys = intersect(keys, s.devices)
		if len(keys) == 0 {
			s.logger.WarnContext(ctx, "no devices match selection",
				"input", s.input, "requested", s.devices)
			return NewStats(0, 0), ErrEmptySelection
		}
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	s.logger.InfoContext(ctx, "partitioning dataset",
		"input", s.input, "devices", len(keys), "records", df.Nrow())

	stats := NewStats(len(keys), df.Nrow())
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subset := df.Subset(byKey[key])
		if subset.Err != nil {
			return nil, fmt.Errorf("select device %q: %w", key, subset.Err)
		}

		path := filepath.Join(s.outputDir, "device_"+sanitizeDevice(key)+format.Ext())
		if err := writeSubset(subset, path, format); err != nil {
			return nil, fmt.Errorf("write device %q: %w", key, err)
		}

		stats.add(key, DeviceStats{Records: subset.Nrow(), OutputFile: path})
		s.logger.InfoContext(ctx, "wrote device file",
			"device", key, "records", subset.Nrow(), "path", path)
	}

	s.logger.InfoContext(ctx, "partition complete", "stats", stats)
	return stats, nil
}

// deviceGroups returns the distinct device keys in first-seen order along
// with the row indices belonging to each key.
func deviceGroups(records []string) ([]string, map[string][]int) {
	var keys []string
	byKey := make(map[string][]int)
	for i, key := range records {
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], i)
	}
	return keys, byKey
}

// intersect keeps the keys that appear in the allow-list, preserving key
// order.
func intersect(keys, allowed []string) []string {
	allow := make(map[string]struct{}, len(allowed))
	for _, d := range allowed {
		allow[d] = struct{}{}
	}
	var out []string
	for _, k := range keys {
		if _, ok := allow[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// sanitizeDevice makes a device key safe to embed in a file name by
// replacing path separators with underscores.
func sanitizeDevice(key string) string {
	key = strings.ReplaceAll(key, "/", "_")
	return strings.ReplaceAll(key, `\`, "_")
}
