package json

import (
	"crypto/rand"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/oklog/ulid/v2"
)

// NewRecordID returns a fresh ULID. Record IDs double as filenames, and
// ULIDs sort lexicographically in creation order.
func NewRecordID() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns the paths of all records under dir, newest first. A missing
// directory yields an empty list.
func List(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	fsys := os.DirFS(dir)
	var matches []string
	err := doublestar.GlobWalk(fsys, "**/*.json", func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.Join(dir, filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Month directories and ULID filenames both sort chronologically, so
	// a reverse lexicographic sort puts the newest record first.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}
