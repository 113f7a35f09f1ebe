// Package archive exports clipboard history to a portable zstd-compressed
// JSON-lines file and reads it back.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/suykerbuyk/reflow/internal/history"
)

// FileName is the default export file name inside the state directory.
const FileName = "history.jsonl.zst"

// DefaultPath returns the export path inside stateDir.
func DefaultPath(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// Export writes items to path, one JSON object per line. Paths ending in
// .zst are zstd-compressed. The file is written beside path and renamed
// into place, so a failed export never leaves a truncated archive.
func Export(items []history.Item, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp, items, isCompressed(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename archive: %w", err)
	}
	return nil
}

func write(w io.Writer, items []history.Item, compress bool) error {
	var encoder *zstd.Encoder
	if compress {
		var err error
		encoder, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		w = encoder
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			if encoder != nil {
				encoder.Close()
			}
			return fmt.Errorf("encode item %s: %w", it.ID, err)
		}
	}

	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("finalize compression: %w", err)
		}
	}
	return nil
}

// Import reads items written by Export. Plain .jsonl files are accepted
// too.
func Import(path string) ([]history.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if isCompressed(path) {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	var items []history.Item
	dec := json.NewDecoder(r)
	for {
		var it history.Item
		err := dec.Decode(&it)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode item %d: %w", len(items)+1, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}
