package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrNoRuns = errors.New("storage: no saved runs")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Variant    string             `json:"variant"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Mixer      bool               `json:"mixer"`
	Steps      int                `json:"steps"`
	Params     map[string]float64 `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	// Error records a run that stopped early.
	Error string `json:"error,omitempty"`
}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, series *Series) (string, error) {
	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Variant, now.UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, series); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCSV writes a header of "time" plus the column names, then one row
// per sample.
func WriteCSV(out io.Writer, series *Series) error {
	w := csv.NewWriter(out)
	if series == nil {
		w.Flush()
		return w.Error()
	}

	header := append([]string{"time"}, series.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range series.Rows {
		rec := make([]string, 0, len(row)+1)
		t := 0.0
		if i < len(series.Times) {
			t = series.Times[i]
		}
		rec = append(rec, strconv.FormatFloat(t, 'f', 6, 64))
		for _, val := range row {
			rec = append(rec, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the ID of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", ErrNoRuns
	}
	return runs[len(runs)-1].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	series := &Series{}
	if len(records) == 0 {
		return series, nil
	}
	series.Columns = append(series.Columns, records[0][1:]...)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("states.csv line %d: %w", i+1, err)
		}
		row := make([]float64, len(record)-1)
		for j := 1; j < len(record); j++ {
			if row[j-1], err = strconv.ParseFloat(record[j], 64); err != nil {
				return nil, fmt.Errorf("states.csv line %d: %w", i+1, err)
			}
		}
		series.Times = append(series.Times, t)
		series.Rows = append(series.Rows, row)
	}
	return series, nil
}
