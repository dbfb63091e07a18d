package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docsearch"
	"github.com/fwojciec/docsearch/doxygen"
	"github.com/fwojciec/docsearch/etree"
	"github.com/fwojciec/docsearch/fs"
	"github.com/fwojciec/docsearch/goquery"
	dshttp "github.com/fwojciec/docsearch/http"
	"github.com/fwojciec/docsearch/minio"
	dsslog "github.com/fwojciec/docsearch/slog"
)

// sqliteScheme prefixes sources that name an imported collection.
const sqliteScheme = "sqlite:"

// Compile-time interface verification.
var (
	_ SourceResolver = (*Resolver)(nil)
	_ SourceResolver = ResolverFunc(nil)
)

// SourceResolver turns a source argument into a shard source.
type SourceResolver interface {
	Resolve(ctx context.Context, source, section string) (*Resolved, error)
}

// ResolverFunc adapts a function to the SourceResolver interface.
type ResolverFunc func(ctx context.Context, source, section string) (*Resolved, error)

// Resolve calls f(ctx, source, section).
func (f ResolverFunc) Resolve(ctx context.Context, source, section string) (*Resolved, error) {
	return f(ctx, source, section)
}

// Resolved is a shard source together with the location its entry URLs
// are relative to.
type Resolved struct {
	Source docsearch.ShardSource

	// Base is a URL or directory that entry URLs resolve against.
	// Empty when URLs are printed as stored.
	Base string
}

// S3Config holds the connection settings for s3:// sources.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Insecure  bool
}

// Resolver resolves sources by their syntax:
//
//	http(s)://...          docs page, search directory, searchdata.js or searchdata.xml
//	s3://bucket/prefix     search directory in object storage
//	sqlite:<collection>    collection imported into the database
//	<file>.xml             local searchdata.xml
//	<dir>                  local search directory, or a docs directory holding search/
type Resolver struct {
	Logger      *slog.Logger
	HTTPOptions []dshttp.Option
	S3          S3Config

	// Set when the database is open.
	Collections docsearch.CollectionService
	Shards      docsearch.ShardRepository
}

// Resolve implements SourceResolver.
func (r *Resolver) Resolve(ctx context.Context, source, section string) (*Resolved, error) {
	var (
		res *Resolved
		err error
	)
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		res, err = r.resolveHTTP(ctx, source, section)
	case strings.HasPrefix(source, "s3://"):
		res, err = r.resolveS3(source, section)
	case strings.HasPrefix(source, sqliteScheme):
		res, err = r.resolveCollection(ctx, strings.TrimPrefix(source, sqliteScheme))
	case strings.EqualFold(filepath.Ext(source), ".xml"):
		res, err = r.resolveXMLFile(source)
	default:
		res, err = r.resolveDir(source, section)
	}
	if err != nil {
		return nil, err
	}
	res.Source = dsslog.NewLoggingSource(res.Source, r.logger())
	return res, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Resolver) doxygenSource(fetcher docsearch.Fetcher, section string) docsearch.ShardSource {
	return doxygen.NewSource(dsslog.NewLoggingFetcher(fetcher, r.logger()), section)
}

func (r *Resolver) resolveHTTP(ctx context.Context, source, section string) (*Resolved, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EINVALID, "invalid URL %q", source)
	}
	pages := dshttp.NewFetcher(r.HTTPOptions...)

	var dir string
	switch name := path.Base(u.Path); {
	case strings.HasSuffix(u.Path, ".xml"):
		data, err := pages.Get(ctx, source)
		if err != nil {
			return nil, err
		}
		table, err := etree.ParseSearchData(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Resolved{Source: table, Base: u.ResolveReference(&url.URL{Path: "./"}).String()}, nil
	case strings.HasSuffix(u.Path, "/search/"):
		dir = source
	case name == "searchdata.js" || name == "search.js":
		dir = u.ResolveReference(&url.URL{Path: "./"}).String()
	default:
		page, err := pages.Get(ctx, source)
		if err != nil {
			return nil, err
		}
		sd, err := goquery.FindSearchData(string(page), source)
		if err != nil {
			return nil, err
		}
		r.logger().Debug("search data located", "dir", sd.Dir, "generator", sd.Generator)
		dir = sd.Dir
	}

	opts := append([]dshttp.Option{dshttp.WithBaseURL(dir)}, r.HTTPOptions...)
	return &Resolved{
		Source: r.doxygenSource(dshttp.NewFetcher(opts...), section),
		Base:   dir,
	}, nil
}

func (r *Resolver) resolveS3(source, section string) (*Resolved, error) {
	bucket, prefix, err := minio.ParseURL(source)
	if err != nil {
		return nil, err
	}
	if r.S3.Endpoint == "" {
		return nil, docsearch.Errorf(docsearch.EINVALID, "DOCSEARCH_S3_ENDPOINT must be set to read %s", source)
	}
	client, err := minio.NewClient(r.S3.Endpoint, r.S3.AccessKey, r.S3.SecretKey, !r.S3.Insecure)
	if err != nil {
		return nil, err
	}
	return &Resolved{Source: r.doxygenSource(minio.NewFetcher(client, bucket, prefix), section)}, nil
}

func (r *Resolver) resolveCollection(ctx context.Context, name string) (*Resolved, error) {
	if r.Collections == nil || r.Shards == nil {
		return nil, docsearch.Errorf(docsearch.EINTERNAL, "database not open")
	}
	c, err := findCollection(ctx, r.Collections, name)
	if err != nil {
		return nil, err
	}
	return &Resolved{Source: &docsearch.CollectionSource{Repository: r.Shards, CollectionID: c.ID}}, nil
}

func (r *Resolver) resolveXMLFile(name string) (*Resolved, error) {
	f, err := os.Open(name)
	if os.IsNotExist(err) {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "file not found: %s", name)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := etree.ParseSearchData(f)
	if err != nil {
		return nil, err
	}
	return &Resolved{Source: table, Base: filepath.Dir(name)}, nil
}

func (r *Resolver) resolveDir(dir, section string) (*Resolved, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "directory not found: %s", dir)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, docsearch.Errorf(docsearch.EINVALID, "unsupported source %q", dir)
	}
	if sub := filepath.Join(dir, "search"); isDir(sub) {
		dir = sub
	}
	return &Resolved{Source: r.doxygenSource(fs.NewFetcher(dir), section), Base: dir}, nil
}

func isDir(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.IsDir()
}

// findCollection returns the collection with the given name.
func findCollection(ctx context.Context, collections docsearch.CollectionService, name string) (*docsearch.Collection, error) {
	found, err := collections.FindCollections(ctx, docsearch.CollectionFilter{Name: &name})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "collection %q not found. Use 'docsearch collections' to see available collections.", name)
	}
	return found[0], nil
}
