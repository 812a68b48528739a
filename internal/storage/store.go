// Package storage keeps recorded runs on disk: one directory per run with
// metadata.json and a series.csv of sampled metrics.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/chatooly/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

// ModelParams are the Gray-Scott rates a run used.
type ModelParams struct {
	DA   float64 `json:"dA"`
	DB   float64 `json:"dB"`
	Feed float64 `json:"feed"`
	Kill float64 `json:"kill"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	FPS       int                `json:"fps"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	CellSize  int                `json:"cellSize"`
	Params    ModelParams        `json:"params"`
	Palette   int                `json:"palette"`
	Dissolves int                `json:"dissolves"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and series under a fresh run id, which is returned and
// stored in meta.ID.
func (s *Store) Save(meta *RunMetadata, series *sim.Series) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	preset := meta.Preset
	if preset == "" {
		preset = "run"
	}
	base := fmt.Sprintf("%s_%d", preset, meta.Timestamp.Unix())
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	meta.ID = id

	runDir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), series); err != nil {
		return "", err
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSeries(path string, series *sim.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	header := append([]string{"frame", "time"}, series.Metrics...)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for i := range series.Frames {
		row := []string{
			strconv.FormatInt(series.Frames[i], 10),
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
		}
		for _, name := range series.Metrics {
			row = append(row, strconv.FormatFloat(series.Values[name][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if !filepath.IsLocal(runID) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads back a run's sampled metrics. Rows that fail to parse
// are skipped.
func (s *Store) LoadSeries(runID string) (*sim.Series, error) {
	if !filepath.IsLocal(runID) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
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

	series := &sim.Series{Values: map[string][]float64{}}
	if len(records) == 0 || len(records[0]) < 2 {
		return series, nil
	}
	series.Metrics = append(series.Metrics, records[0][2:]...)

	for _, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			continue
		}
		frame, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		vals := make([]float64, 0, len(series.Metrics))
		for _, raw := range rec[2:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				break
			}
			vals = append(vals, v)
		}
		if len(vals) != len(series.Metrics) {
			continue
		}
		series.Frames = append(series.Frames, frame)
		series.Times = append(series.Times, t)
		for k, name := range series.Metrics {
			series.Values[name] = append(series.Values[name], vals[k])
		}
	}
	return series, nil
}

// ExportData is a run's metadata and series in one JSON document.
type ExportData struct {
	Run    *RunMetadata `json:"run"`
	Series *sim.Series  `json:"series"`
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Series: series})
}
