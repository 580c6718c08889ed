// Package blob stores each document as one object in a gocloud.dev bucket (local files, GCS, ...).
package blob

import (
	"context"
	"io"
	"slices"

	"emart/internal/domain/repository"
	"emart/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	"gocloud.dev/gcerrors"
)

const contentType = "application/json"

// Store is a KeyValueStore over a blob bucket.
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket at url and scopes it to prefix.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}
	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}

	return NewStore(bucket), nil
}

// NewStore wraps an already opened bucket.
func NewStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, repository.ErrKeyNotFound
		}

		return nil, errors.Wrapf(err, "read object %s", key)
	}

	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	err := s.bucket.WriteAll(ctx, key, value, &blob.WriterOptions{ContentType: contentType})

	return errors.Wrapf(err, "write object %s", key)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "delete object %s", key)
	}

	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "list objects %s", prefix)
		}
		if obj.IsDir {
			continue
		}
		keys = append(keys, obj.Key)
	}
	slices.Sort(keys)

	return keys, nil
}

// Close releases the bucket.
func (s *Store) Close() error {
	return errors.WithStack(s.bucket.Close())
}
