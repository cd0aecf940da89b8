package domain

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/droidmod/gatepatch/internal/adapter"
	m "github.com/droidmod/gatepatch/internal/model"
)

// Renamer rewrites a fully-qualified package identity everywhere it
// appears: the descriptor unit, the directory layout of every root, and
// every in-text symbolic reference. It does not attempt rollback;
// callers must treat a partial failure as a failed pass and discard the
// working tree.
type Renamer struct {
	fs adapter.SourceFS
}

// NewRenamer constructs a Renamer over the given filesystem adapter.
func NewRenamer(sfs adapter.SourceFS) *Renamer {
	return &Renamer{fs: sfs}
}

// GenerateTarget derives the replacement identity deterministically
// from the old one: a stable prefix plus a time-based distinguishing
// suffix.
func GenerateTarget(old string, now time.Time) string {
	return fmt.Sprintf("%s.mod%d", old, now.Unix()%1_000_000)
}

// Apply performs the rename in its fixed order: descriptor
// substitution, directory moves, then the full-tree reference rewrite.
// The moves must precede the text pass because the text pass does not
// relocate files.
func (r *Renamer) Apply(mapping m.RenameMapping, descriptor m.Path, roots []m.Path) error {
	if err := r.rewriteDescriptor(mapping, descriptor); err != nil {
		return err
	}

	for _, root := range roots {
		if err := r.moveNamespaceDir(mapping, root); err != nil {
			return err
		}
	}

	for _, root := range roots {
		if err := r.rewriteReferences(mapping, root); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renamer) rewriteDescriptor(mapping m.RenameMapping, descriptor m.Path) error {
	raw, err := r.fs.ReadFile(descriptor)
	if err != nil {
		return fmt.Errorf("reading descriptor: %w", err)
	}

	next := strings.ReplaceAll(string(raw), mapping.Old, mapping.New)
	if next == string(raw) {
		return nil
	}

	if err := r.fs.WriteFile(descriptor, []byte(next), 0o644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}

	return nil
}

// moveNamespaceDir relocates root/<old-path> to root/<new-path>. The
// new path may nest under the old one (old + ".modN"), so the old
// directory is parked under a temporary sibling first.
func (r *Renamer) moveNamespaceDir(mapping m.RenameMapping, root m.Path) error {
	oldDir := m.Path(filepath.Join(string(root), pathForm(mapping.Old)))
	newDir := m.Path(filepath.Join(string(root), pathForm(mapping.New)))

	if _, err := r.fs.Stat(oldDir); err != nil {
		if os.IsNotExist(err) {
			return nil // this root does not carry the namespace
		}

		return fmt.Errorf("stat %s: %w", oldDir, err)
	}

	parking := m.Path(string(root) + ".rename-parking")

	if err := r.fs.Rename(oldDir, parking); err != nil {
		return fmt.Errorf("parking %s: %w", oldDir, err)
	}

	if err := r.fs.MkdirAll(m.Path(filepath.Dir(string(newDir))), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(string(newDir)), err)
	}

	if err := r.fs.Rename(parking, newDir); err != nil {
		return fmt.Errorf("moving %s to %s: %w", oldDir, newDir, err)
	}

	return nil
}

// rewriteReferences replaces every symbolic-reference form
// (Lold/path/...) and every dotted-identity form across the remaining
// class units of one root.
func (r *Renamer) rewriteReferences(mapping m.RenameMapping, root m.Path) error {
	oldRef := "L" + pathForm(mapping.Old) + "/"
	newRef := "L" + pathForm(mapping.New) + "/"

	return r.fs.Walk(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(path, smaliFileExt) {
			return nil
		}

		raw, readErr := r.fs.ReadFile(m.Path(path))
		if readErr != nil {
			return nil
		}

		text := string(raw)
		next := strings.ReplaceAll(text, oldRef, newRef)
		next = replaceDotted(next, mapping.Old, mapping.New)

		if next == text {
			return nil
		}

		if writeErr := r.fs.WriteFile(m.Path(path), []byte(next), 0o644); writeErr != nil {
			return fmt.Errorf("writing %s: %w", path, writeErr)
		}

		return nil
	})
}

// replaceDotted swaps dotted identities while leaving occurrences that
// are already part of the new identity alone.
func replaceDotted(text, old, new string) string {
	if strings.HasPrefix(new, old+".") {
		// new nests under old; a plain ReplaceAll would corrupt freshly
		// written new identities on a second pass.
		suffix := strings.TrimPrefix(new, old)

		var b strings.Builder

		for {
			idx := strings.Index(text, old)
			if idx < 0 {
				b.WriteString(text)

				return b.String()
			}

			b.WriteString(text[:idx])
			b.WriteString(old)

			rest := text[idx+len(old):]
			if !strings.HasPrefix(rest, suffix) {
				b.WriteString(suffix)
			}

			text = rest
		}
	}

	return strings.ReplaceAll(text, old, new)
}

func pathForm(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}
