package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/flightctl/internal/storage"
)

type ExportData struct {
	Variant    string             `json:"variant"`
	Preset     string             `json:"preset,omitempty"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Columns    []string           `json:"columns"`
	Times      []float64          `json:"times"`
	Rows       [][]float64        `json:"rows"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(meta *storage.RunMetadata, series *storage.Series) ExportData {
	return ExportData{
		Variant:    meta.Variant,
		Preset:     meta.Preset,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      series.Len(),
		Columns:    series.Columns,
		Times:      series.Times,
		Rows:       series.Rows,
		Metrics:    meta.Metrics,
	}
}

func JSON(w io.Writer, meta *storage.RunMetadata, series *storage.Series) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, series))
}

func JSONFile(path string, meta *storage.RunMetadata, series *storage.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return JSON(file, meta, series)
}
