/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3store stores and retrieves data using Amazon S3. It serves two
 * roles: an httpcache.Cache backend for the web cache (hashed keys,
 * best-effort semantics) and a snapshot store for tournament state (plain
 * keys, explicit errors). It is based on the original
 * github.com/sourcegraph/s3cache but updated to use the more modern
 * aws-sdk-go-v2 and golang standard library functions
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Store objects store and retrieve data using Amazon S3.
type Store struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client the store should use when interacting with
	// S3. By default this is initialized in Init() with the default Config,
	// but callers can optionally override this with their own s3 client if
	// desired.
	Client *s3.Client

	// bucketName is the name of the S3 bucket. Example: "mybucket".
	bucketName string

	// gzip indicates whether cache entries should be gzipped in Set and
	// gunzipped in Get. If true, cache entry keys will have the suffix
	// ".gz" appended.
	gzip bool

	// logErrors controls whether errors should be logged or not
	logErrors bool

	// The context to specify when initiating s3 requests
	ctx context.Context
}

// Get implements httpcache.Cache; a miss is indistinguishable from an error.
func (c *Store) Get(key string) ([]byte, bool) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.cacheKeyToObjectKey(key)),
	}

	resp, err := c.Client.GetObject(c.ctx, input)
	if err != nil {
		if c.logErrors {
			var apiErr smithy.APIError
			// no such key just indicates a cache miss
			if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
				log.Printf("s3store.get: failed to get object %v%v: %v", *input.Bucket,
					*input.Key, err)
			}
		}
		return []byte{}, false
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if c.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			if c.logErrors {
				log.Printf("s3store.get: failed to open compressed object %v%v: %v",
					*input.Bucket, *input.Key, err)
			}
			return nil, false
		}

		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		if c.logErrors {
			log.Printf("s3store.get: failed to read object %v%v: %v",
				*input.Bucket, *input.Key, err)
		}
	}

	return data, err == nil
}

// Set implements httpcache.Cache, storing best-effort.
func (c *Store) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.cacheKeyToObjectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if c.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			if c.logErrors {
				log.Printf("s3store.set: failed to gzip data for %v%v: %v",
					*input.Bucket, *input.Key, err)
			}
			return
		}
		if err := gw.Close(); err != nil {
			if c.logErrors {
				log.Printf("s3store.set: failed to close gzip writer for %v%v: %v",
					*input.Bucket, *input.Key, err)
			}
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	_, err := c.Client.PutObject(c.ctx, input)
	if err != nil {
		if c.logErrors {
			log.Printf("s3store.set: put failed for %v%v: %v", *input.Bucket,
				*input.Key, err)
		}
	}
}

func (c *Store) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.cacheKeyToObjectKey(key)),
	}

	_, err := c.Client.DeleteObject(c.ctx, input)
	if err != nil {
		if c.logErrors {
			log.Printf("s3store.delete: delete failed: %v", err)
		}
	}
}

// LoadSnapshot fetches a snapshot object by its plain name. Unlike Get, a
// missing object surfaces as ErrNotFound so callers can distinguish "no
// tournament yet" from an access problem.
func (c *Store) LoadSnapshot(name string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotObjectKey(name)),
	}
	resp, err := c.Client.GetObject(c.ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("s3store.load: failed to get %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3store.load: failed to read %s: %w", name, err)
	}
	return data, nil
}

// SaveSnapshot stores a snapshot object under its plain name.
func (c *Store) SaveSnapshot(name string, data []byte) error {
	_, err := c.Client.PutObject(c.ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(snapshotObjectKey(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3store.save: put failed for %s: %w", name, err)
	}
	return nil
}

// ErrNotFound indicates the named snapshot does not exist in the bucket.
var ErrNotFound = errors.New("snapshot not found")

func snapshotObjectKey(name string) string {
	return "/snapshots/" + name
}

func (c *Store) cacheKeyToObjectKey(key string) string {
	const PathPrefix = "webcache"

	h := md5.New()
	io.WriteString(h, key)
	objKey := fmt.Sprintf("/%v/%v", PathPrefix, hex.EncodeToString(h.Sum(nil)))
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}

// New returns a new Store with underlying storage in the specified Amazon
// S3 bucket. Additionally, specify whether cache entries persisted in the
// store should be compressed with gzip or not. Callers should take care to
// invoke Init() on the returned Store object before use
func New(ctxIn context.Context, bucketNameIn string, gzipIn bool,
	logErrorsIn bool) *Store {

	return &Store{
		ctx:        ctxIn,
		bucketName: bucketNameIn,
		gzip:       gzipIn,
		logErrors:  logErrorsIn,
	}
}

// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned Store object's
// Config and Client fields.
func (c *Store) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	c.Client = s3.NewFromConfig(c.Config)

	// Permission check: verify bucket exists and is accessible
	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w", c.bucketName, err)
	}

	// Permission check: verify ability to list objects (read/list permissions)
	if _, err = c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucketName),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w", c.bucketName, err)
	}

	return nil
}
