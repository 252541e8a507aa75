package presets

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/highwayhash"

	"pivotline/app/fileloader"
)

// FileHashKey is the fixed key for source fingerprints, so a file hashes the
// same on every machine.
var FileHashKey = []byte("pivotline file hash key\x00\x00\x00\x00\x00\x00\x00\x00\x00")

// HashFile returns the hex HighwayHash of the content at path under FileHashKey.
func HashFile(path string) (string, error) {
	return hashFileWithKey(path, FileHashKey)
}

func hashFileWithKey(path string, key []byte) (string, error) {
	h, err := highwayhash.New(key)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint hashes the source behind path. A directory or glob hashes the
// ordered list of its files' hashes and relative paths, so adding, removing,
// renaming or editing any file changes the result. The files are the ones a
// load with options reads: options.Pattern selects them and options.MaxFiles
// bounds them.
func Fingerprint(path string, options fileloader.Options) (string, error) {
	if !fileloader.IsDirectory(path) && !fileloader.IsGlob(path) {
		return HashFile(path)
	}
	files, root, err := fileloader.SourceFiles(path, options)
	if err != nil {
		return "", err
	}
	files, _ = fileloader.LimitFiles(files, options.MaxFiles)
	combined, err := highwayhash.New(FileHashKey)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	for _, f := range files {
		sum, err := HashFile(f)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		fmt.Fprintf(combined, "%s\x00%s\x00", sum, filepath.ToSlash(rel))
	}
	return hex.EncodeToString(combined.Sum(nil)), nil
}
