package devsplit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/devsplit"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const deviceLogCSV = "id,device,created_at\n" +
	"1,A,2024-01-01\n" +
	"2,B,2024-01-02\n" +
	"3,A,2024-01-03\n"

func TestSplitterPartitionsByDevice(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)
	outDir := filepath.Join(t.TempDir(), "out")

	stats, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, stats.TotalDevices())
	require.Equal(t, 3, stats.TotalRecords())
	require.Equal(t, []string{
		filepath.Join(outDir, "device_A.csv"),
		filepath.Join(outDir, "device_B.csv"),
	}, stats.OutputFiles())

	a, ok := stats.Device("A")
	require.True(t, ok)
	require.Equal(t, 2, a.Records)

	b, ok := stats.Device("B")
	require.True(t, ok)
	require.Equal(t, 1, b.Records)

	// Row count is conserved: per-device counts sum to the input rows and
	// every output file holds exactly its device's rows.
	total := 0
	for key, d := range stats.Devices() {
		df, err := devsplit.Load(d.OutputFile)
		require.NoError(t, err)
		require.Equal(t, d.Records, df.Nrow())
		for _, v := range df.Col("device").Records() {
			require.Equal(t, key, v)
		}
		total += d.Records
	}
	require.Equal(t, stats.TotalRecords(), total)
}

func TestSplitterSpecificDevices(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)
	outDir := filepath.Join(t.TempDir(), "out")

	stats, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		WithDevices("B", "Z").
		Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, stats.TotalDevices())
	require.Equal(t, []string{filepath.Join(outDir, "device_B.csv")}, stats.OutputFiles())
	require.NoFileExists(t, filepath.Join(outDir, "device_A.csv"))

	b, ok := stats.Device("B")
	require.True(t, ok)
	require.Equal(t, 1, b.Records)
}

func TestSplitterEmptySelection(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)
	outDir := filepath.Join(t.TempDir(), "out")

	stats, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		WithDevices("Z").
		Run(context.Background())
	require.ErrorIs(t, err, devsplit.ErrEmptySelection)

	require.NotNil(t, stats)
	require.Zero(t, stats.TotalDevices())
	require.Empty(t, stats.OutputFiles())
	require.NoDirExists(t, outDir)
}

func TestSplitterMissingDeviceColumn(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)

	_, err := devsplit.NewSplitter(input).
		WithOutputDir(t.TempDir()).
		WithDeviceColumn("serial").
		Run(context.Background())

	var missing *devsplit.MissingColumnError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "serial", missing.Column)
	require.Contains(t, missing.Available, "device")
}

func TestSplitterUnsupportedFormat(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)

	_, err := devsplit.NewSplitter(input).
		WithOutputDir(t.TempDir()).
		WithFormat(devsplit.Format("parquet")).
		Run(context.Background())

	var unsupported *devsplit.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "parquet", unsupported.Format)
}

func TestSplitterFormatCaseInsensitive(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)
	outDir := filepath.Join(t.TempDir(), "out")

	stats, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		WithFormat(devsplit.Format("JSON")).
		Run(context.Background())
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "device_A.json"))
	require.Len(t, stats.OutputFiles(), 2)
}

func TestSplitterSanitizesDeviceKeys(t *testing.T) {
	input := writeFixture(t, "device_log.csv",
		"id,device\n"+
			"1,rack/1\n"+
			"2,rack\\2\n")
	outDir := filepath.Join(t.TempDir(), "out")

	stats, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		Run(context.Background())
	require.NoError(t, err)

	for _, path := range stats.OutputFiles() {
		name := filepath.Base(path)
		require.NotContains(t, name, "/")
		require.NotContains(t, name, "\\")
		require.Equal(t, outDir, filepath.Dir(path))
	}
	require.FileExists(t, filepath.Join(outDir, "device_rack_1.csv"))
	require.FileExists(t, filepath.Join(outDir, "device_rack_2.csv"))
}

func TestSplitterJSONOutput(t *testing.T) {
	input := writeFixture(t, "device_log.csv",
		"id,device,location\n"+
			"1,A,Hà Nội\n"+
			"2,A,Đà Nẵng\n")
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := devsplit.NewSplitter(input).
		WithOutputDir(outDir).
		WithFormat(devsplit.FormatJSON).
		Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "device_A.json"))
	require.NoError(t, err)

	content := string(data)
	require.True(t, strings.HasPrefix(content, "["), "expected an array of records")
	require.Contains(t, content, "\n  {", "expected indented output")
	require.Contains(t, content, "Hà Nội", "expected non-ASCII preserved")
}

func TestSplitterRoundTrip(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)

	for _, format := range []devsplit.Format{
		devsplit.FormatCSV,
		devsplit.FormatJSON,
		devsplit.FormatExcel,
	} {
		t.Run(string(format), func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "out")
			stats, err := devsplit.NewSplitter(input).
				WithOutputDir(outDir).
				WithFormat(format).
				Run(context.Background())
			require.NoError(t, err)

			for key, d := range stats.Devices() {
				df, err := devsplit.Load(d.OutputFile)
				require.NoError(t, err)
				require.Equal(t, d.Records, df.Nrow(), "device %s", key)
				require.ElementsMatch(t, []string{"id", "device", "created_at"}, df.Names())
			}
		})
	}
}

func TestSplitterOverwritesExistingFiles(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)
	outDir := filepath.Join(t.TempDir(), "out")

	splitter := devsplit.NewSplitter(input).WithOutputDir(outDir)

	first, err := splitter.Run(context.Background())
	require.NoError(t, err)
	second, err := splitter.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, first.OutputFiles(), second.OutputFiles())

	df, err := devsplit.Load(filepath.Join(outDir, "device_A.csv"))
	require.NoError(t, err)
	require.Equal(t, 2, df.Nrow())
}

func TestSplitterContextCancelled(t *testing.T) {
	input := writeFixture(t, "device_log.csv", deviceLogCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := devsplit.NewSplitter(input).
		WithOutputDir(filepath.Join(t.TempDir(), "out")).
		Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitterMissingInput(t *testing.T) {
	_, err := devsplit.NewSplitter(filepath.Join(t.TempDir(), "nope.csv")).
		WithOutputDir(t.TempDir()).
		Run(context.Background())

	var parse *devsplit.ParseError
	require.ErrorAs(t, err, &parse)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
