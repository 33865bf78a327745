// publisher/publisher.go
package publisher

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clearglobal/hdx-scraper/models"
)

// FilePublisher materializes datasets on disk: one directory per dataset with
// its CSV resources and dataset.json, plus a shared manifest.csv.
type FilePublisher struct {
	dir     string
	headers []string
	now     func() time.Time
}

func NewFilePublisher(dir string, headers []string) *FilePublisher {
	return &FilePublisher{dir: dir, headers: headers, now: time.Now}
}

func (p *FilePublisher) ManifestPath() string { return filepath.Join(p.dir, "manifest.csv") }

func (p *FilePublisher) Publish(ctx context.Context, dataset *models.Dataset) error {
	if err := dataset.Validate(); err != nil {
		return err
	}
	datasetDir := filepath.Join(p.dir, dataset.Name)
	if err := os.MkdirAll(datasetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", datasetDir, err)
	}

	written := p.now().UTC()
	entries := make([]ManifestEntry, 0, len(dataset.Resources))
	for _, r := range dataset.Resources {
		path := filepath.Join(datasetDir, r.Name)
		if err := p.writeResource(path, r); err != nil {
			return err
		}
		entries = append(entries, ManifestEntry{
			Dataset:     dataset.Name,
			Country:     dataset.CountryISO3,
			Resource:    r.Name,
			Description: r.Description,
			PCoded:      r.PCoded,
			Rows:        len(r.Rows),
			Path:        path,
			WrittenAt:   written,
		})
	}

	meta, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", dataset.Name, err)
	}
	if err := os.WriteFile(filepath.Join(datasetDir, "dataset.json"), meta, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", dataset.Name, err)
	}
	if err := UpdateManifest(p.ManifestPath(), dataset.Name, entries); err != nil {
		return err
	}
	slog.InfoContext(ctx, "published dataset", "name", dataset.Name, "dir", datasetDir, "resources", len(entries))
	return nil
}

func (p *FilePublisher) writeResource(path string, r models.Resource) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := WriteRows(w, p.headers, r.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Name, err)
	}
	return f.Close()
}
