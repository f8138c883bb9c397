package chunkstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteChunkThenReassemble(t *testing.T) {
	dir := t.TempDir()
	url := "example.test/path/to/file"

	chunks := [][]byte{
		[]byte("0123"),
		[]byte("4567"),
		[]byte("89AB"),
	}
	const chunkSize = 4

	for i, c := range chunks {
		if err := WriteChunk(dir, int64(i*chunkSize), c); err != nil {
			t.Fatalf("WriteChunk(%d): %v", i, err)
		}
	}

	if err := Reassemble(dir, url, len(chunks), chunkSize); err != nil {
		t.Fatalf("Reassemble: %v", err)
	}

	outPath := filepath.Join(dir, outputFileName(url))
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "0123456789AB"
	if string(got) != want {
		t.Fatalf("reassembled = %q, want %q", got, want)
	}

	for i := range chunks {
		if _, err := os.Stat(filepath.Join(dir, chunkFileName(int64(i*chunkSize)))); !os.IsNotExist(err) {
			t.Fatalf("chunk file %d still exists after reassembly", i)
		}
	}
}

func TestReassembleStopsOnMissingChunk(t *testing.T) {
	dir := t.TempDir()
	url := "example.test/file"
	const chunkSize = 4

	if err := WriteChunk(dir, 0, []byte("0123")); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	// chunk 1 (min=4) is deliberately never written.
	if err := WriteChunk(dir, 8, []byte("89AB")); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	err := Reassemble(dir, url, 3, chunkSize)
	if err == nil {
		t.Fatal("expected Reassemble to fail on a missing chunk")
	}

	outPath := filepath.Join(dir, outputFileName(url))
	got, rerr := os.ReadFile(outPath)
	if rerr != nil {
		t.Fatalf("partial output should still exist: %v", rerr)
	}
	if string(got) != "0123" {
		t.Fatalf("partial output = %q, want %q", got, "0123")
	}
}

func TestOutputFileNameReplacesSlashes(t *testing.T) {
	got := outputFileName("host.test/a/b/c")
	want := "host.test_a_b_c"
	if got != want {
		t.Fatalf("outputFileName = %q, want %q", got, want)
	}
}

func TestChunkFileNameIsDecimalMin(t *testing.T) {
	if got := chunkFileName(0); got != "0" {
		t.Fatalf("chunkFileName(0) = %q, want %q", got, "0")
	}
}
