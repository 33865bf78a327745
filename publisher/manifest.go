// publisher/manifest.go
package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jszwec/csvutil"
)

// ManifestEntry is one line of manifest.csv: a resource written by a run.
type ManifestEntry struct {
	Dataset     string    `csv:"dataset"`
	Country     string    `csv:"country"`
	Resource    string    `csv:"resource"`
	Description string    `csv:"description"`
	PCoded      bool      `csv:"p_coded"`
	Rows        int       `csv:"rows"`
	Path        string    `csv:"path"`
	WrittenAt   time.Time `csv:"written_at"`
}

// ReadManifest decodes manifest.csv at path. A missing file is empty.
func ReadManifest(path string) ([]ManifestEntry, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var entries []ManifestEntry
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if err := csvutil.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return entries, nil
}

// UpdateManifest replaces every entry of dataset with entries and rewrites
// the file.
func UpdateManifest(path, dataset string, entries []ManifestEntry) error {
	existing, err := ReadManifest(path)
	if err != nil {
		return err
	}
	merged := existing[:0]
	for _, e := range existing {
		if e.Dataset != dataset {
			merged = append(merged, e)
		}
	}
	merged = append(merged, entries...)

	out, err := csvutil.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}
