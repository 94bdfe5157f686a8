package blacklist

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps a blacklist as a newline-delimited text file, written in
// sorted order. A sidecar lock file serializes concurrent writers.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a store backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Get reads the file as a set. A missing file is an empty set.
func (s *FileStore) Get(_ context.Context) (Set, error) {
	return s.read()
}

// Add inserts value and rewrites the file.
func (s *FileStore) Add(ctx context.Context, value string) error {
	return s.update(ctx, func(set Set) { set.Add(value) })
}

// Remove deletes value and rewrites the file.
func (s *FileStore) Remove(ctx context.Context, value string) error {
	return s.update(ctx, func(set Set) { set.Remove(value) })
}

// Write replaces the file contents with set.
func (s *FileStore) Write(ctx context.Context, set Set) error {
	return s.update(ctx, func(cur Set) {
		clear(cur)
		for v := range set {
			cur.Add(v)
		}
	})
}

func (s *FileStore) update(ctx context.Context, mutate func(Set)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrapf(err, "blacklist: create dir for %s", s.path)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return eris.Wrapf(err, "blacklist: lock %s", s.path)
	}
	if !locked {
		return eris.Errorf("blacklist: could not lock %s", s.path)
	}
	defer s.lock.Unlock() //nolint:errcheck

	set, err := s.read()
	if err != nil {
		return err
	}
	mutate(set)
	return s.write(set)
}

func (s *FileStore) read() (Set, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "blacklist: open %s", s.path)
	}
	defer f.Close() //nolint:errcheck

	set := Set{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		set.Add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "blacklist: read %s", s.path)
	}
	return set, nil
}

func (s *FileStore) write(set Set) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "blacklist: create temp for %s", s.path)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	w := bufio.NewWriter(tmp)
	for _, v := range set.Sorted() {
		if _, err := w.WriteString(v + "\n"); err != nil {
			tmp.Close() //nolint:errcheck
			return eris.Wrap(err, "blacklist: write entry")
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "blacklist: flush")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "blacklist: close temp")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return eris.Wrapf(err, "blacklist: replace %s", s.path)
	}
	return nil
}
