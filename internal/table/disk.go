// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

const entryExt = ".yaml"

// BaseDir resolves the directory disk tables live under.
// Precedence:
//  1. SESSCACHE_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/sesscache
//
// Returns ("", false) if a base cannot be resolved.
func BaseDir() (string, bool) {
	if c, ok := os.LookupEnv("SESSCACHE_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sesscache"), true
	}
	return "", false
}

type diskOptions struct {
	base string
}

// DiskOption customizes NewDisk.
type DiskOption func(*diskOptions)

// WithBaseDir overrides BaseDir.
func WithBaseDir(base string) DiskOption {
	return func(o *diskOptions) { o.base = base }
}

// Disk is a Table that keeps one YAML document per entry in a directory named
// after the store. Entry files are named by the MD5 of the clear-text key.
type Disk[V any] struct {
	dir string
}

// NewDisk opens (creating if needed) the disk table for the named store.
func NewDisk[V any](name string, opts ...DiskOption) (*Disk[V], error) {
	var o diskOptions
	for _, opt := range opts {
		opt(&o)
	}

	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid store name %q", name)
	}

	base := o.base
	if base == "" {
		var ok bool
		if base, ok = BaseDir(); !ok {
			return nil, errors.New("unable to resolve cache base directory")
		}
	}

	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o700); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	log.Debugf("disk table at %s", dir)

	return &Disk[V]{dir: dir}, nil
}

// Dir returns the directory holding the entry files.
func (d *Disk[V]) Dir() string {
	return d.dir
}

func (d *Disk[V]) Insert(e Entry[V]) error {
	if _, err := os.Stat(d.path(e.Key)); err == nil {
		return fmt.Errorf("insert %q: %w", e.Key, ErrDuplicateKey)
	}
	return d.write(e)
}

func (d *Disk[V]) Find(key string) (Entry[V], bool, error) {
	e, err := d.read(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Entry[V]{}, false, nil
	}
	if err != nil {
		return Entry[V]{}, false, err
	}
	// An MD5 collision is treated as absence.
	if e.Key != key {
		return Entry[V]{}, false, nil
	}
	return e, true, nil
}

func (d *Disk[V]) Update(e Entry[V]) error {
	if _, err := os.Stat(d.path(e.Key)); err != nil {
		return fmt.Errorf("update %q: %w", e.Key, ErrNotFound)
	}
	return d.write(e)
}

func (d *Disk[V]) Remove(key string) (int, error) {
	err := os.Remove(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to remove entry: %w", err)
	}
	return 1, nil
}

func (d *Disk[V]) RemoveAll() error {
	files, err := d.files()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove entry: %w", err)
		}
	}
	return nil
}

func (d *Disk[V]) All() ([]Entry[V], error) {
	files, err := d.files()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry[V], 0, len(files))
	for _, f := range files {
		e, err := d.read(f)
		if err != nil {
			// A file removed between listing and reading is simply gone.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].InsertedAt.Equal(entries[j].InsertedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].InsertedAt.Before(entries[j].InsertedAt)
	})

	return entries, nil
}

func (d *Disk[V]) files() ([]string, error) {
	des, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}
	var files []string
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), entryExt) {
			continue
		}
		files = append(files, filepath.Join(d.dir, de.Name()))
	}
	return files, nil
}

func (d *Disk[V]) read(p string) (Entry[V], error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return Entry[V]{}, err
	}
	var e Entry[V]
	if err := yaml.Unmarshal(b, &e); err != nil {
		return Entry[V]{}, fmt.Errorf("failed to decode entry %s: %w", filepath.Base(p), err)
	}
	return e, nil
}

// write stores e via a temp file and rename so readers never see a partial
// document.
func (d *Disk[V]) write(e Entry[V]) error {
	b, err := yaml.Marshal(&e)
	if err != nil {
		return fmt.Errorf("failed to encode entry %q: %w", e.Key, err)
	}

	tmp, err := os.CreateTemp(d.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(e.Key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

func (d *Disk[V]) path(key string) string {
	return filepath.Join(d.dir, encodeKey(key)+entryExt)
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
