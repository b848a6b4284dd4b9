package devsplit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"time"
)

// Column names the Summarizer aggregates over. created_at is required;
// online and active_time are optional and render as N/A when absent.
const (
	colCreatedAt  = "created_at"
	colOnline     = "online"
	colActiveTime = "active_time"
)

// DeviceSummary is one row of the per-device summary table. OnlineCount and
// TotalActiveTime are nil when the corresponding column is absent from the
// input.
type DeviceSummary struct {
	Device          string
	TotalRecords    int
	FirstRecord     string
	LastRecord      string
	OnlineCount     *int
	TotalActiveTime *float64
}

// Summary is the per-device aggregate table, one entry per device in
// first-seen order.
type Summary struct {
	DeviceColumn string
	Devices      []DeviceSummary
}

// Columns returns the summary table header in its fixed order.
func (s *Summary) Columns() []string {
	return []string{
		s.DeviceColumn,
		"Total_Records",
		"First_Record",
		"Last_Record",
		"Online_Count",
		"Total_Active_Time",
	}
}

// Records returns the summary as a records table, header row first, with
// absent metrics rendered as "N/A".
func (s *Summary) Records() [][]string {
	records := make([][]string, 0, len(s.Devices)+1)
	records = append(records, s.Columns())
	for _, d := range s.Devices {
		online, active := "N/A", "N/A"
		if d.OnlineCount != nil {
			online = strconv.Itoa(*d.OnlineCount)
		}
		if d.TotalActiveTime != nil {
			active = strconv.FormatFloat(*d.TotalActiveTime, 'f', -1, 64)
		}
		records = append(records, []string{
			d.Device,
			strconv.Itoa(d.TotalRecords),
			d.FirstRecord,
			d.LastRecord,
			online,
			active,
		})
	}
	return records
}

// WriteCSV writes the summary table to w.
func (s *Summary) WriteCSV(w io.Writer) error {
	return csv.NewWriter(w).WriteAll(s.Records())
}

// Summarizer computes per-device aggregate metrics from a tabular dataset:
// row count, earliest and latest created_at value, count of truthy online
// values, and the summed active_time rounded to two decimal places.
//
//	summary, err := devsplit.NewSummarizer("device_log.csv").Run(ctx)
type Summarizer struct {
	input        string
	deviceColumn string
	logger       *slog.Logger
}

// NewSummarizer creates a Summarizer for the given input file, grouping on
// [DefaultDeviceColumn].
func NewSummarizer(inputFile string) *Summarizer {
	return &Summarizer{
		input:        inputFile,
		deviceColumn: DefaultDeviceColumn,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithDeviceColumn sets the column to group on. Empty values are ignored.
func (s *Summarizer) WithDeviceColumn(column string) *Summarizer {
	if column != "" {
		s.deviceColumn = column
	}
	return s
}

// WithLogger sets the logger. The default discards all output.
func (s *Summarizer) WithLogger(logger *slog.Logger) *Summarizer {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Run loads the input and aggregates it per device. The device column and
// created_at must exist, otherwise Run fails with a *MissingColumnError.
func (s *Summarizer) Run(ctx context.Context) (*Summary, error) {
	df, err := Load(s.input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	names := df.Names()
	if !slices.Contains(names, s.deviceColumn) {
		return nil, &MissingColumnError{Column: s.deviceColumn, Available: names}
	}
	if !slices.Contains(names, colCreatedAt) {
		return nil, &MissingColumnError{Column: colCreatedAt, Available: names}
	}

	keys, byKey := deviceGroups(df.Col(s.deviceColumn).Records())
	created := df.Col(colCreatedAt).Records()

	var online, active []string
	if slices.Contains(names, colOnline) {
		online = df.Col(colOnline).Records()
	}
	if slices.Contains(names, colActiveTime) {
		active = df.Col(colActiveTime).Records()
	}

	summary := &Summary{DeviceColumn: s.deviceColumn}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := byKey[key]
		d := DeviceSummary{Device: key, TotalRecords: len(rows)}

		first, last := created[rows[0]], created[rows[0]]
		for _, i := range rows[1:] {
			if beforeTimestamp(created[i], first) {
				first = created[i]
			}
			if beforeTimestamp(last, created[i]) {
				last = created[i]
			}
		}
		d.FirstRecord, d.LastRecord = first, last

		if online != nil {
			count := 0
			for _, i := range rows {
				if truthy(online[i]) {
					count++
				}
			}
			d.OnlineCount = &count
		}

		if active != nil {
			total := 0.0
			for _, i := range rows {
				v, err := strconv.ParseFloat(active[i], 64)
				if err != nil {
					return nil, &ParseError{
						Path: s.input,
						Err:  fmt.Errorf("device %q: invalid %s value %q", key, colActiveTime, active[i]),
					}
				}
				total += v
			}
			total = math.Round(total*100) / 100
			d.TotalActiveTime = &total
		}

		summary.Devices = append(summary.Devices, d)
	}

	s.logger.InfoContext(ctx, "summarized dataset",
		"input", s.input, "devices", len(summary.Devices), "records", df.Nrow())
	return summary, nil
}

// timestampLayouts are tried in order when comparing created_at values.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// beforeTimestamp reports whether a sorts before b, comparing as timestamps
// when both values parse under a known layout and lexicographically
// otherwise.
func beforeTimestamp(a, b string) bool {
	ta, okA := parseTimestamp(a)
	tb, okB := parseTimestamp(b)
	if okA && okB {
		return ta.Before(tb)
	}
	return a < b
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truthy reports whether an online value counts as online. Booleans and
// numbers follow their natural truthiness; anything else counts as false.
func truthy(v string) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f != 0
	}
	return false
}
