package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"headmetrics/pkg/mesh"
	"headmetrics/pkg/stl"
)

// writeBoxMesh writes a 10 x 6 x 20 box as an STL file
func writeBoxMesh(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "head.stl")
	box := mesh.Box{Max: r3.Vec{X: 10, Y: 6, Z: 20}}
	if err := stl.SaveMesh(path, mesh.BoxMesh(box)); err != nil {
		t.Fatalf("Failed to write mesh: %v", err)
	}
	return path
}

// TestSetFlags verifies explicitly given flags are detected, including
// negative values that equal no sentinel
func TestSetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	start := fs.Float64("start", 40, "")
	fs.Float64("end", 100, "")
	if err := fs.Parse([]string{"-start", "-10"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	set := setFlags(fs)
	if !set["start"] || set["end"] {
		t.Errorf("Expected only start to be set, got %v", set)
	}
	if *start != -10 {
		t.Errorf("Expected start -10, got %v", *start)
	}
}

// TestRunCircumferenceNegativeStart verifies a sweep starting below the
// mesh runs and finds the first slice inside it
func TestRunCircumferenceNegativeStart(t *testing.T) {
	dir := t.TempDir()
	meshFile := writeBoxMesh(t, dir)
	out := filepath.Join(dir, "out")

	err := runCircumference([]string{
		"-config", filepath.Join(dir, "missing.yaml"),
		"-mesh", meshFile,
		"-output", out,
		"-quiet",
		"-start", "-20", "-end", "50", "-step", "10",
	})
	if err != nil {
		t.Fatalf("runCircumference failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "scene.yaml")); err != nil {
		t.Errorf("Expected scene.yaml in output: %v", err)
	}
}

// TestRunReturnsErrors verifies failures are returned to the caller
func TestRunReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "missing.yaml")

	if err := runBoundingBox([]string{"-config", cfgFile, "-output", dir}); err == nil {
		t.Error("Expected error without -mesh or -slices")
	}

	err := runCircumference([]string{
		"-config", cfgFile,
		"-mesh", writeBoxMesh(t, dir),
		"-output", dir,
		"-quiet",
		"-step", "0",
	})
	if err == nil {
		t.Error("Expected error for zero step")
	}
}

// TestProfileWrittenOnFailure verifies the CPU profile is flushed when a
// command fails after profiling has started
func TestProfileWrittenOnFailure(t *testing.T) {
	dir := t.TempDir()
	slices := filepath.Join(dir, "slices")
	if err := os.MkdirAll(slices, 0755); err != nil {
		t.Fatalf("Failed to create slices dir: %v", err)
	}
	out := filepath.Join(dir, "out")

	err := runBoundingBox([]string{
		"-config", filepath.Join(dir, "missing.yaml"),
		"-slices", slices,
		"-output", out,
		"-quiet",
		"-profile",
	})
	if err == nil {
		t.Fatal("Expected error for a slice directory without images")
	}
	if _, err := os.Stat(filepath.Join(out, "cpu.pprof")); err != nil {
		t.Errorf("Expected CPU profile after failure: %v", err)
	}
}
