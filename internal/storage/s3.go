// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client used to
// fetch and publish catalog documents. It wraps the AWS SDK v2 and is
// configured for path-style access (required by MinIO, CEPH and Hetzner).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// Client wraps an S3 client bound to a single bucket.
type Client struct {
	s3       *s3.Client
	bucket   string
	endpoint string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{s3: s3Client, bucket: bucket, endpoint: endpoint}, nil
}

// Download retrieves an object and returns its contents.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", c.bucket, key, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", c.bucket, key, err)
	}
	return data, nil
}

// Upload stores data under key.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// ObjectSource serves a catalog document stored as a single object. An
// empty Format is detected from the key's extension.
type ObjectSource struct {
	Client *Client
	Key    string
	Format catalog.Format
}

// Fetch implements catalog.Source.
func (s ObjectSource) Fetch(ctx context.Context) (catalog.Raw, error) {
	data, err := s.Client.Download(ctx, s.Key)
	if err != nil {
		return catalog.Raw{}, err
	}
	return catalog.Raw{
		Data:   data,
		Format: s.format(),
		Origin: fmt.Sprintf("s3:%s/%s", s.Client.bucket, s.Key),
	}, nil
}

// Publish uploads the document under the source key. A document authored
// in another format is re-encoded so Fetch can read it back. Objects are
// not versioned, so the returned record carries no version number.
func (s ObjectSource) Publish(ctx context.Context, raw catalog.Raw, cat *catalog.Catalog, note string) (*models.CatalogDocument, error) {
	format := s.format()
	data := raw.Data
	if raw.Format != format {
		var err error
		if data, err = catalog.Encode(cat.Document(), format); err != nil {
			return nil, err
		}
	}
	if err := s.Client.Upload(ctx, s.Key, format.ContentType(), data); err != nil {
		return nil, err
	}
	return &models.CatalogDocument{
		Format:    string(format),
		Checksum:  cat.Version(),
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s ObjectSource) format() catalog.Format {
	if s.Format != "" {
		return s.Format
	}
	return catalog.DetectFormat(s.Key)
}
