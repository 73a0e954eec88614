package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdWriter writes one JSON document per line into a zstd-compressed
// file.
type JSONLZstdWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// CreateJSONLZstd creates (or truncates) path for writing.
func CreateJSONLZstd(path string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &JSONLZstdWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// Write appends v as one line.
func (w *JSONLZstdWriter) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the buffer, finishes the zstd frame and closes the file.
func (w *JSONLZstdWriter) Close() error {
	flushErr := w.w.Flush()
	encErr := w.enc.Close()
	fileErr := w.f.Close()
	for _, err := range []error{flushErr, encErr, fileErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// ExportNarrative writes entries to path as zstd-compressed JSONL and
// returns how many lines were written.
func ExportNarrative(path string, entries []Entry) (int, error) {
	w, err := CreateJSONLZstd(path)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := w.Write(e); err != nil {
			_ = w.Close()
			return i, fmt.Errorf("write entry %d: %w", i, err)
		}
	}
	if err := w.Close(); err != nil {
		return len(entries), fmt.Errorf("close export: %w", err)
	}
	return len(entries), nil
}

// ReadNarrative decodes a file written by ExportNarrative.
func ReadNarrative(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var entries []Entry
	jd := json.NewDecoder(dec)
	for {
		var e Entry
		if err := jd.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return entries, fmt.Errorf("decode line %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
