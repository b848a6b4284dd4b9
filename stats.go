package devsplit

import (
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
)

// DeviceStats describes the outcome for a single device: how many rows were
// written and where.
type DeviceStats struct {
	Records    int    `json:"records_count"`
	OutputFile string `json:"output_file"`
}

// Stats summarizes a partition run: how many devices and rows were seen and,
// per device, how many rows were written to which file. TotalRecords counts
// every input row; the per-device counts sum to the rows actually selected,
// which is smaller when an allow-list excluded some devices.
type Stats struct {
	totalDevices int
	totalRecords int
	devices      map[string]DeviceStats
	outputFiles  []string
}

// NewStats creates a Stats with the given totals and no per-device entries.
func NewStats(totalDevices, totalRecords int) *Stats {
	return &Stats{
		totalDevices: totalDevices,
		totalRecords: totalRecords,
		devices:      make(map[string]DeviceStats),
	}
}

// TotalDevices returns the number of devices processed.
func (s *Stats) TotalDevices() int { return s.totalDevices }

// TotalRecords returns the number of rows in the input dataset.
func (s *Stats) TotalRecords() int { return s.totalRecords }

// Device returns the stats recorded for a device key.
func (s *Stats) Device(key string) (DeviceStats, bool) {
	d, ok := s.devices[key]
	return d, ok
}

// Devices returns a copy of the per-device stats keyed by device.
func (s *Stats) Devices() map[string]DeviceStats {
	return maps.Clone(s.devices)
}

// OutputFiles returns the written file paths in device-key order.
func (s *Stats) OutputFiles() []string {
	return slices.Clone(s.outputFiles)
}

func (s *Stats) add(key string, d DeviceStats) {
	s.devices[key] = d
	s.outputFiles = append(s.outputFiles, d.OutputFile)
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("total_devices", s.totalDevices),
		slog.Int("total_records", s.totalRecords),
		slog.Int("output_files", len(s.outputFiles)),
	)
}

// statsJSON is the JSON representation for marshaling/unmarshaling Stats.
type statsJSON struct {
	TotalDevices int                    `json:"total_devices"`
	TotalRecords int                    `json:"total_records"`
	Devices      map[string]DeviceStats `json:"devices_processed"`
	OutputFiles  []string               `json:"output_files"`
}

// MarshalJSON implements json.Marshaler for Stats serialization.
func (s *Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		TotalDevices: s.totalDevices,
		TotalRecords: s.totalRecords,
		Devices:      s.devices,
		OutputFiles:  s.outputFiles,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Stats deserialization.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var v statsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.totalDevices = v.TotalDevices
	s.totalRecords = v.TotalRecords
	s.devices = v.Devices
	if s.devices == nil {
		s.devices = make(map[string]DeviceStats)
	}
	s.outputFiles = v.OutputFiles
	return nil
}
