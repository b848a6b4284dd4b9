// Package devsplit partitions tabular device data into per-device files and
// computes per-device aggregate summaries.
//
// The package reads a whole dataset into memory (CSV, Excel or JSON,
// inferred from the file suffix), groups rows by the values of a device
// column, and either writes one file per device or aggregates fixed metrics
// per device. There are exactly two operations, both stateless and
// synchronous; calling both against the same file re-reads it each time.
//
// # Quick Start
//
// Split a dataset into one file per device:
//
//	stats, err := devsplit.NewSplitter("device_log.csv").
//	    WithOutputDir("filtered_devices").
//	    WithFormat(devsplit.FormatCSV).
//	    Run(ctx)
//	if err != nil {
//	    return err
//	}
//	slog.Info("split complete", "stats", stats)
//
// Summarize the same dataset per device:
//
//	summary, err := devsplit.NewSummarizer("device_log.csv").Run(ctx)
//	if err != nil {
//	    return err
//	}
//	summary.WriteCSV(os.Stdout)
//
// # Configuration
//
// Both operations follow the same pattern: a NewXxx constructor seeded with
// the Default* values, WithXxx methods for overrides, and a Run method that
// does the work. Invalid override values (empty strings, nil loggers) are
// ignored rather than failing the chain.
//
// To restrict a split to particular devices, pass an allow-list:
//
//	stats, err := devsplit.NewSplitter("device_log.csv").
//	    WithDevices("sensor-1", "sensor-9").
//	    Run(ctx)
//
// Devices outside the allow-list are skipped entirely; if nothing matches,
// Run returns [ErrEmptySelection] so a no-op run is distinguishable from a
// failure.
//
// # Input and Output Formats
//
// Input format is inferred from the file suffix: .csv, .json (an array of
// record objects), or .xlsx/.xls (first sheet, first row as header). Output
// format is chosen with [Splitter.WithFormat]: CSV files carry a header row
// and no index column, JSON files are an indented array of records with
// non-ASCII characters left unescaped, and Excel files hold a single sheet.
// Device files are named device_<key> with path separators in the key
// replaced by underscores, so a hostile device value cannot escape the
// output directory.
//
// # Error Handling
//
// Failures surface as typed errors rather than printed diagnostics:
// *UnsupportedFormatError for an unknown format or suffix, *ParseError for
// missing or malformed input files, *MissingColumnError when a required
// column is absent, and the sentinel [ErrEmptySelection] for an allow-list
// that matches nothing. All are friendly to errors.Is and errors.As.
//
// # Summaries
//
// [Summarizer.Run] groups rows by the device column and reports, per device,
// the row count, the earliest and latest created_at value, the count of
// truthy online values, and the summed active_time rounded to two decimal
// places. created_at is required; online and active_time are optional and
// render as "N/A" in the summary table when absent.
package devsplit
