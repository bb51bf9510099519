package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/render"
	"github.com/san-kum/charvak/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	frameFile    = "frame.bin"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrInvalidID   = errors.New("storage: invalid run id")
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

// New returns a store rooted at baseDir. Nothing is created until Init
// or Save.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// FieldInfo records the attraction a run used.
type FieldInfo struct {
	Center   [2]float32 `json:"center"`
	Strength float32    `json:"strength"`
	Epsilon  float32    `json:"epsilon"`
}

// RunMetadata is stored as metadata.json in each run directory.
type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Particles  int                `json:"particles"`
	Dt         float32            `json:"dt"`
	Steps      int                `json:"steps"`
	Backend    string             `json:"backend"`
	Integrator string             `json:"integrator"`
	Field      FieldInfo          `json:"field"`
	Metrics    map[string]float64 `json:"metrics"`
}

// runDir resolves id to a directory directly below baseDir. Ids that
// would name baseDir itself or anything outside it are rejected.
func (s *Store) runDir(id string) (string, error) {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) || !filepath.IsLocal(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.baseDir, id), nil
}

// Save writes a run directory and returns its id. ID and Timestamp are
// filled in when empty; Metrics always come from the result. Saving over
// an existing id replaces its files, including a stale frame.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if meta.ID == "" {
		prefix := meta.Integrator
		if prefix == "" {
			prefix = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", prefix, now.UnixNano())
	}
	meta.Metrics = result.Metrics

	dir, err := s.runDir(meta.ID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(dir, seriesFile), result); err != nil {
		return "", err
	}
	framePath := filepath.Join(dir, frameFile)
	if len(result.Frame) > 0 {
		if err := os.WriteFile(framePath, result.Frame, 0644); err != nil {
			return "", err
		}
	} else if err := os.Remove(framePath); err != nil && !os.IsNotExist(err) {
		return "", err
	}

	return meta.ID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	names := seriesNames(result.Series)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			vals := result.Series[name]
			if i < len(vals) {
				row = append(row, strconv.FormatFloat(vals[i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns all readable runs, oldest first. Directories without a
// parsable metadata file are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries returns the sample times and one column per metric.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(dir, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return []float64{}, series, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}

	times := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(header); j++ {
			if j >= len(record) || record[j] == "" {
				continue
			}
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}

// LoadFrame decodes the stored render buffer into positions.
func (s *Store) LoadFrame(runID string) ([]mgl32.Vec2, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, frameFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no frame for %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return render.Unpack(data)
}

// Delete removes a run directory and everything in it.
func (s *Store) Delete(runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	return os.RemoveAll(dir)
}
