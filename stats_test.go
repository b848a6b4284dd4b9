package devsplit_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/devsplit"
)

func TestStatsJSONRoundTrip(t *testing.T) {
	payload := `{
		"total_devices": 2,
		"total_records": 3,
		"devices_processed": {
			"A": {"records_count": 2, "output_file": "device_data/device_A.csv"},
			"B": {"records_count": 1, "output_file": "device_data/device_B.csv"}
		},
		"output_files": ["device_data/device_A.csv", "device_data/device_B.csv"]
	}`

	var stats devsplit.Stats
	require.NoError(t, stats.UnmarshalJSON([]byte(payload)))

	require.Equal(t, 2, stats.TotalDevices())
	require.Equal(t, 3, stats.TotalRecords())

	a, ok := stats.Device("A")
	require.True(t, ok)
	require.Equal(t, 2, a.Records)
	require.Equal(t, "device_data/device_A.csv", a.OutputFile)

	_, ok = stats.Device("C")
	require.False(t, ok)

	data, err := json.Marshal(&stats)
	require.NoError(t, err)
	require.JSONEq(t, payload, string(data))
}

func TestStatsUnmarshalInvalid(t *testing.T) {
	var stats devsplit.Stats
	require.Error(t, stats.UnmarshalJSON([]byte(`invalid json`)))
}

func TestNewStatsEmpty(t *testing.T) {
	stats := devsplit.NewStats(0, 0)
	require.Zero(t, stats.TotalDevices())
	require.Zero(t, stats.TotalRecords())
	require.Empty(t, stats.Devices())
	require.Empty(t, stats.OutputFiles())
}
