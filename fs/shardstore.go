package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/doxygen"
	"github.com/klauspost/compress/zstd"
)

// ShardStore writes shards as a Doxygen search directory with atomic
// update semantics. Files are saved to a temporary directory, then moved
// into place on Commit.
type ShardStore struct {
	baseDir  string
	name     string
	section  *doxygen.Section
	compress bool
	enc      *zstd.Encoder
}

// StoreOption configures a ShardStore.
type StoreOption func(*ShardStore)

// WithCompression writes shard files zstd-compressed with CompressedExt.
// The manifest is always written uncompressed.
func WithCompression() StoreOption {
	return func(s *ShardStore) {
		s.compress = true
	}
}

// NewShardStore creates a ShardStore for one index section holding the
// given shard identifiers. Files are saved to baseDir/name.tmp and moved to
// baseDir/name on Commit.
func NewShardStore(baseDir, name, section string, ids []string, opts ...StoreOption) (*ShardStore, error) {
	sec, err := doxygen.NewSection(0, section, section, ids)
	if err != nil {
		return nil, err
	}
	s := &ShardStore{
		baseDir: baseDir,
		name:    name,
		section: sec,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		s.enc = enc
	}
	return s, nil
}

func (s *ShardStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ShardStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes shard to its file in the temporary directory.
func (s *ShardStore) Save(ctx context.Context, shard *docsearch.Shard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := shard.Validate(); err != nil {
		return err
	}
	name, ok := s.section.FileName(shard.ID)
	if !ok {
		return docsearch.Errorf(docsearch.EINVALID, "shard %q is not part of section %q", shard.ID, s.section.Name)
	}

	data := doxygen.FormatShard(shard)
	if s.compress {
		data = s.enc.EncodeAll(data, nil)
		name += CompressedExt
	}
	return s.write(name, data)
}

func (s *ShardStore) write(name string, data []byte) error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.tempDir(), name), data, 0644)
}

// Commit writes the manifest and moves the directory into place,
// replacing any previous contents.
func (s *ShardStore) Commit() error {
	m := &doxygen.Manifest{Sections: []*doxygen.Section{s.section}}
	if err := s.write("searchdata.js", m.Format()); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved so far.
func (s *ShardStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
