// Package minio fetches Doxygen search data from MinIO and other
// S3-compatible object storage.
package minio

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/docsearch"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Ensure Fetcher implements docsearch.Fetcher at compile time.
var _ docsearch.Fetcher = (*Fetcher)(nil)

// Fetcher reads search data objects from a bucket.
type Fetcher struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewFetcher creates a Fetcher for objects under prefix in bucket.
func NewFetcher(client *minio.Client, bucket, prefix string) *Fetcher {
	return &Fetcher{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// NewClient connects to an S3-compatible endpoint with static credentials.
// Anonymous access is used when accessKey is empty.
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*minio.Client, error) {
	creds := credentials.NewStaticV4(accessKey, secretKey, "")
	if accessKey == "" {
		creds = credentials.NewStatic("", "", "", credentials.SignatureAnonymous)
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: secure,
	})
}

// ParseURL splits an s3://bucket/prefix URL into bucket and prefix.
func ParseURL(rawURL string) (bucket, prefix string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", docsearch.Errorf(docsearch.EINVALID, "invalid object storage URL %q", rawURL)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

func (f *Fetcher) key(name string) string {
	return path.Join(f.prefix, name)
}

// Fetch reads the object name. Returns ENOTFOUND if it does not exist.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	obj, err := f.client.GetObject(ctx, f.bucket, f.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, f.translate(name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, f.translate(name, err)
	}
	return data, nil
}

func (f *Fetcher) translate(name string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return docsearch.Errorf(docsearch.ENOTFOUND, "object %q not found", f.key(name))
	case "NoSuchBucket":
		return docsearch.Errorf(docsearch.ENOTFOUND, "bucket %q not found", f.bucket)
	}
	return err
}
