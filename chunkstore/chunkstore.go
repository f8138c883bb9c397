// Package chunkstore persists completed range downloads to per-chunk files
// under a download directory, and reassembles a URL's chunks into a single
// final output file in range order.
package chunkstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// chunkFileName returns the filename a chunk beginning at min is stored
// under. Any '/' in the decimal representation (never expected in
// practice, since min is always a non-negative integer) is replaced with
// '|' so the value can never be mistaken for a path component.
func chunkFileName(min int64) string {
	name := strconv.FormatInt(min, 10)
	return strings.ReplaceAll(name, "/", "|")
}

// outputFileName derives the final, reassembled file's name from a URL by
// replacing every '/' with '_'.
func outputFileName(url string) string {
	return strings.ReplaceAll(url, "/", "_")
}

// WriteChunk writes body to the chunk file for range-start min under dir,
// truncating any existing file of the same name.
func WriteChunk(dir string, min int64, body []byte) error {
	path := filepath.Join(dir, chunkFileName(min))
	if err := os.WriteFile(path, body, 0600); err != nil {
		return fmt.Errorf("chunkstore: write chunk %s: %w", path, err)
	}
	return nil
}

// Reassemble concatenates the numTasks chunk files for url, in ascending
// min order (min = i*chunkSize for i in [0, numTasks)), into the final
// output file under dir, deleting each chunk file as it is consumed. If
// any chunk file is missing, reassembly stops immediately and the partial
// output file is left on disk.
func Reassemble(dir, url string, numTasks int, chunkSize int64) error {
	outPath := filepath.Join(dir, outputFileName(url))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("chunkstore: create output %s: %w", outPath, err)
	}
	defer out.Close()

	for i := 0; i < numTasks; i++ {
		min := int64(i) * chunkSize
		chunkPath := filepath.Join(dir, chunkFileName(min))

		if err := copyChunk(out, chunkPath); err != nil {
			return fmt.Errorf("chunkstore: reassemble %s: %w", url, err)
		}
		os.Remove(chunkPath)
	}

	return nil
}

// copyChunk streams chunkPath's contents into out in blocks, leaving out's
// write position advanced past what it wrote.
func copyChunk(out io.Writer, chunkPath string) error {
	in, err := os.Open(chunkPath)
	if err != nil {
		return err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return nil
}
