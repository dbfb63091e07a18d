// Package fs reads and writes Doxygen search directories on the local
// filesystem. Shard files may be stored zstd-compressed with a ".zst"
// suffix.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsearch"
	"github.com/klauspost/compress/zstd"
)

// CompressedExt is appended to the names of zstd-compressed files.
const CompressedExt = ".zst"

// Ensure Fetcher implements docsearch.Fetcher at compile time.
var _ docsearch.Fetcher = (*Fetcher)(nil)

// Fetcher reads search data files from a directory.
type Fetcher struct {
	dir string
	dec *zstd.Decoder
}

// NewFetcher creates a Fetcher rooted at dir.
func NewFetcher(dir string) *Fetcher {
	// A single-threaded decoder used only through DecodeAll starts no
	// goroutines, so it needs no Close.
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return &Fetcher{dir: dir, dec: dec}
}

// Fetch returns the contents of name, reading name.zst when only the
// compressed file exists.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	compressed, err := os.ReadFile(path + CompressedExt)
	if errors.Is(err, os.ErrNotExist) {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "file %q not found", name)
	} else if err != nil {
		return nil, err
	}
	data, err = f.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "decompress %q: %v", name, err)
	}
	return data, nil
}

// path resolves name inside the fetcher's directory.
func (f *Fetcher) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", docsearch.Errorf(docsearch.EINVALID, "invalid file name %q", name)
	}
	return filepath.Join(f.dir, clean), nil
}
