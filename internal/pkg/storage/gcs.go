package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// GCS implements Storage on Google Cloud Storage.
type GCS struct {
	client *gcs.Client
}

type GCSOptions struct {
	// CredentialsJSON is a service account key; application default
	// credentials are used when empty.
	CredentialsJSON []byte
	// Endpoint overrides the API endpoint, e.g. for an emulator.
	Endpoint string
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	var clientOpts []option.ClientOption
	if len(opts.CredentialsJSON) > 0 {
		creds, err := google.CredentialsFromJSON(ctx, opts.CredentialsJSON, gcs.ScopeReadWrite)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client}, nil
}

func (g *GCS) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}

	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return ObjectInfo{}, err
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{Bucket: bucket, Key: key, Size: n}
	if attrs := w.Attrs(); attrs != nil {
		info.ETag = attrs.Etag
	}
	return info, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
