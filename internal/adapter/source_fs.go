// Package adapter contains filesystem, tooling and persistence adapters
// for the gatepatch CLI.
package adapter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	m "github.com/droidmod/gatepatch/internal/model"
)

// WalkFunc mirrors the callback shape of filepath.WalkDir. It is defined
// here so the domain layer does not depend on io/fs directly.
type WalkFunc func(path string, entry fs.DirEntry, err error) error

// SourceFS abstracts the filesystem operations the domain layer performs
// on a decompiled source tree. Hiding direct os access keeps the driver
// and rename logic testable against temporary trees.
type SourceFS interface {
	// Walk traverses root depth-first in lexical (deterministic) order.
	Walk(root m.Path, fn WalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces a file's contents in one shot. Callers must
	// only invoke it with fully computed text, never incrementally.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// ListDirs returns the names of the immediate subdirectories of path.
	ListDirs(path m.Path) ([]string, error)

	// Stat returns metadata for a path.
	Stat(path m.Path) (os.FileInfo, error)

	// MkdirAll creates a directory path with any missing parents.
	MkdirAll(path m.Path, perm os.FileMode) error

	// Rename moves a file or directory to a new location.
	Rename(oldPath, newPath m.Path) error

	// TempDir creates a temporary directory with the given pattern.
	TempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error
}

// LocalSourceFS is the os-backed SourceFS implementation.
type LocalSourceFS struct{}

// NewLocalSourceFS constructs a LocalSourceFS ready to be wired into the
// workflow.
func NewLocalSourceFS() *LocalSourceFS {
	return &LocalSourceFS{}
}

// Walk traverses root depth-first. filepath.WalkDir already visits
// entries in lexical order, which gives the deterministic unit order the
// driver relies on.
func (a *LocalSourceFS) Walk(root m.Path, fn WalkFunc) error {
	return filepath.WalkDir(string(root), func(path string, entry fs.DirEntry, err error) error {
		return fn(path, entry, err)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// ListDirs returns the immediate subdirectory names of path, sorted.
func (a *LocalSourceFS) ListDirs(path m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, err
	}

	var dirs []string

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	sort.Strings(dirs)

	return dirs, nil
}

// Stat returns os.FileInfo metadata for the given path.
func (a *LocalSourceFS) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// MkdirAll creates a directory path with any missing parents.
func (a *LocalSourceFS) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// Rename moves a file or directory.
func (a *LocalSourceFS) Rename(oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}

// TempDir creates a temporary directory.
func (a *LocalSourceFS) TempDir(pattern string) (m.Path, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(dir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFS) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

const smaliRootPrefix = "smali"

// SmaliRoots discovers the class-tree roots of a decompiled tree. The
// dex format partitions classes across "smali", "smali_classes2",
// "smali_classes3", ... sibling directories; they are returned with the
// primary root first and the remainder in numeric order so every pass
// visits them identically.
func SmaliRoots(sfs SourceFS, treeDir m.Path) ([]m.Path, error) {
	dirs, err := sfs.ListDirs(treeDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", treeDir, err)
	}

	var names []string

	for _, dir := range dirs {
		if dir == smaliRootPrefix || strings.HasPrefix(dir, smaliRootPrefix+"_classes") {
			names = append(names, dir)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return smaliRootIndex(names[i]) < smaliRootIndex(names[j])
	})

	roots := make([]m.Path, 0, len(names))
	for _, name := range names {
		roots = append(roots, m.Path(filepath.Join(string(treeDir), name)))
	}

	return roots, nil
}

// smaliRootIndex orders "smali" before "smali_classes2" before
// "smali_classes10" regardless of lexical order.
func smaliRootIndex(name string) int {
	if name == smaliRootPrefix {
		return 1
	}

	n, err := strconv.Atoi(strings.TrimPrefix(name, smaliRootPrefix+"_classes"))
	if err != nil {
		return 1 << 30
	}

	return n
}
