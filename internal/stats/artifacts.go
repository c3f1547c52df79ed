// Package stats persists fingerprint run artifacts: the run configuration,
// the reshaped score matrix, and an index of all runs under a base
// directory.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	runIndexFile = "run_index.json"
	configFile   = "config.json"
	matrixFile   = "matrix.csv"
	summaryFile  = "summary.json"
)

// RunConfig records everything needed to reproduce a run.
type RunConfig struct {
	RunID        string  `json:"run_id"`
	Subject      string  `json:"subject"`
	Probe        string  `json:"probe"`
	Step         float64 `json:"step"`
	Turns        int     `json:"turns"`
	Repetitions  int     `json:"repetitions"`
	Workers      int     `json:"workers"`
	Seed         int64   `json:"seed"`
	Transport    string  `json:"transport"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// RunSummary holds the scalar results a renderer or index consumer needs.
type RunSummary struct {
	RunID    string  `json:"run_id"`
	Side     int     `json:"side"`
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`
}

// RunArtifacts is the full payload written for one run.
type RunArtifacts struct {
	Config   RunConfig
	Matrix   [][]float64
	MinScore float64
	MaxScore float64
}

type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	Subject      string  `json:"subject"`
	Probe        string  `json:"probe"`
	Step         float64 `json:"step"`
	Turns        int     `json:"turns"`
	Repetitions  int     `json:"repetitions"`
	MinScore     float64 `json:"min_score"`
	MaxScore     float64 `json:"max_score"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, summaryFile), RunSummary{
		RunID:    artifacts.Config.RunID,
		Side:     len(artifacts.Matrix),
		MinScore: artifacts.MinScore,
		MaxScore: artifacts.MaxScore,
	}); err != nil {
		return "", err
	}
	if err := writeMatrixCSV(filepath.Join(runDir, matrixFile), artifacts.Matrix); err != nil {
		return "", err
	}

	return runDir, nil
}

// ReadMatrix loads a run's score matrix back from its CSV artifact.
func ReadMatrix(baseDir, runID string) ([][]float64, bool, error) {
	f, err := os.Open(filepath.Join(baseDir, runID, matrixFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false, err
	}
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		matrix[i] = make([]float64, len(row))
		for j, cell := range row {
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, false, fmt.Errorf("matrix cell [%d][%d]: %w", i, j, err)
			}
			matrix[i][j] = value
		}
	}
	return matrix, true, nil
}

// ReadRunSummary loads a run's scalar summary.
func ReadRunSummary(baseDir, runID string) (RunSummary, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, summaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return RunSummary{}, false, nil
		}
		return RunSummary{}, false, err
	}
	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return RunSummary{}, false, err
	}
	return summary, true, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{configFile, summaryFile, matrixFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func writeMatrixCSV(path string, matrix [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range matrix {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = strconv.FormatFloat(value, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
