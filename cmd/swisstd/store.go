/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/policydebate/swisstab/internal"
	"github.com/policydebate/swisstab/s3store"
	"github.com/policydebate/swisstab/tab"
)

// snapshotStore abstracts where the tournament snapshot lives: a local file
// by default, or an S3 bucket when --s3-bucket is given.
type snapshotStore interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Exists() bool
	Where() string
}

type fileStore struct {
	path string
}

func (s *fileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *fileStore) Save(data []byte) error {
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", s.path, err)
	}
	return nil
}

func (s *fileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *fileStore) Where() string { return s.path }

type bucketStore struct {
	store *s3store.Store
	name  string
}

func newBucketStore(ctx context.Context, bucket string) (*bucketStore, error) {
	st := s3store.New(ctx, bucket, false, true)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return &bucketStore{store: st, name: bucket}, nil
}

func (s *bucketStore) Load() ([]byte, error) {
	return s.store.LoadSnapshot(internal.SnapshotKey)
}

func (s *bucketStore) Save(data []byte) error {
	return s.store.SaveSnapshot(internal.SnapshotKey, data)
}

func (s *bucketStore) Exists() bool {
	_, err := s.store.LoadSnapshot(internal.SnapshotKey)
	return err == nil
}

func (s *bucketStore) Where() string {
	return fmt.Sprintf("s3://%s/%s", s.name, internal.SnapshotKey)
}

// openStore picks the snapshot store from flags.
func openStore(ctx context.Context, file, bucket string) (snapshotStore, error) {
	if bucket != "" {
		return newBucketStore(ctx, bucket)
	}
	return &fileStore{path: file}, nil
}

// loadTournament reads and validates the snapshot.
func loadTournament(store snapshotStore) (*tab.Tournament, error) {
	data, err := store.Load()
	if err != nil {
		if errors.Is(err, s3store.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no tournament found at %s; run 'init' first: %w",
				store.Where(), err)
		}
		return nil, err
	}
	return tab.Import(data)
}

// saveTournament validates and persists the snapshot.
func saveTournament(store snapshotStore, t *tab.Tournament) error {
	data, err := t.Export()
	if err != nil {
		return err
	}
	return store.Save(data)
}
