package adapter

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	m "github.com/droidmod/gatepatch/internal/model"
)

// bundleExts are the multi-part bundle formats that wrap a base APK.
var bundleExts = map[string]struct{}{
	".apks": {},
	".xapk": {},
	".zip":  {},
}

// IsBundle reports whether the artifact is a split-bundle archive
// rather than a plain APK.
func IsBundle(path m.Path) bool {
	_, ok := bundleExts[strings.ToLower(filepath.Ext(string(path)))]

	return ok
}

const extractWorkers = 4

// ExtractBundle unpacks a split-bundle archive into destDir and returns
// the path of the base APK. Entries are extracted in parallel; the
// mutation pass itself stays single-threaded.
func ExtractBundle(ctx context.Context, bundle, destDir m.Path) (m.Path, error) {
	reader, err := zip.OpenReader(string(bundle))
	if err != nil {
		return "", fmt.Errorf("opening bundle: %w", err)
	}

	defer func() { _ = reader.Close() }()

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(extractWorkers)

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		entry := entry

		group.Go(func() error {
			return extractEntry(entry, destDir)
		})
	}

	if err := group.Wait(); err != nil {
		return "", err
	}

	return findBaseAPK(destDir)
}

func extractEntry(entry *zip.File, destDir m.Path) error {
	target := filepath.Join(string(destDir), filepath.Clean(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(string(destDir))+string(os.PathSeparator)) {
		return fmt.Errorf("entry %q escapes destination", entry.Name)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)

	return err
}

// findBaseAPK returns base.apk when present, otherwise the largest APK
// in the extracted bundle (split configs are small satellites).
func findBaseAPK(destDir m.Path) (m.Path, error) {
	var best string

	var bestSize int64

	err := filepath.WalkDir(string(destDir), func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(path, ".apk") {
			return nil
		}

		if filepath.Base(path) == "base.apk" {
			best = path
			bestSize = 1<<62 - 1

			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}

		if info.Size() > bestSize {
			best = path
			bestSize = info.Size()
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	if best == "" {
		return "", fmt.Errorf("no apk found in bundle")
	}

	return m.Path(best), nil
}
