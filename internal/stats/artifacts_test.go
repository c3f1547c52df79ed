package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleArtifacts(runID string) RunArtifacts {
	return RunArtifacts{
		Config: RunConfig{
			RunID:        runID,
			Subject:      "titfortat",
			Probe:        "titfortat",
			Step:         0.5,
			Turns:        50,
			Repetitions:  10,
			Transport:    "memory",
			CreatedAtUTC: "2026-08-26T10:00:00Z",
		},
		Matrix: [][]float64{
			{3, 2.5, 0},
			{2, 1.5, 1},
			{3, 2, 0.5},
		},
		MinScore: 0,
		MaxScore: 3,
	}
}

func TestWriteAndReadRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	artifacts := sampleArtifacts("run-1")

	runDir, err := WriteRunArtifacts(baseDir, artifacts)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if runDir != filepath.Join(baseDir, "run-1") {
		t.Fatalf("unexpected run dir %s", runDir)
	}

	matrix, ok, err := ReadMatrix(baseDir, "run-1")
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	if !ok {
		t.Fatal("expected matrix artifact")
	}
	if diff := cmp.Diff(artifacts.Matrix, matrix); diff != "" {
		t.Fatalf("matrix did not round-trip (-want +got):\n%s", diff)
	}

	summary, ok, err := ReadRunSummary(baseDir, "run-1")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !ok {
		t.Fatal("expected summary artifact")
	}
	if summary.Side != 3 || summary.MinScore != 0 || summary.MaxScore != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestReadMatrixMissingRun(t *testing.T) {
	_, ok, err := ReadMatrix(t.TempDir(), "nope")
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	if ok {
		t.Fatal("expected missing matrix")
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected missing run id to fail")
	}
}

func TestRunIndexAppendListAndUpdate(t *testing.T) {
	baseDir := t.TempDir()

	entries := []RunIndexEntry{
		{RunID: "a", Subject: "cooperator", CreatedAtUTC: "2026-08-26T10:00:00Z"},
		{RunID: "b", Subject: "defector", CreatedAtUTC: "2026-08-26T11:00:00Z"},
	}
	for _, entry := range entries {
		if err := AppendRunIndex(baseDir, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	listed, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].RunID != "b" || listed[1].RunID != "a" {
		t.Fatalf("expected newest first, got %+v", listed)
	}

	// Re-appending an existing run id updates in place.
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "a", Subject: "grudger", CreatedAtUTC: "2026-08-26T10:00:00Z"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	listed, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("update must not duplicate, got %d entries", len(listed))
	}
	if listed[1].Subject != "grudger" {
		t.Fatalf("entry not updated: %+v", listed[1])
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	listed, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty index, got %+v", listed)
	}
}

func TestExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	outDir := t.TempDir()

	if _, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-2")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	dst, err := ExportRunArtifacts(baseDir, "run-2", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, file := range []string{configFile, summaryFile, matrixFile} {
		if _, err := os.Stat(filepath.Join(dst, file)); err != nil {
			t.Fatalf("exported %s missing: %v", file, err)
		}
	}

	if _, err := ExportRunArtifacts(baseDir, "missing", outDir); err == nil {
		t.Fatal("expected export of unknown run to fail")
	}
}
