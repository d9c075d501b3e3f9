package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CollectPortal/internal/config"
	"CollectPortal/internal/portal"
)

// SnapshotConfig controls the nightly case export.
type SnapshotConfig struct {
	Schedule string
	TimeZone string
	Folder   string
	Format   string
}

func NewDefaultSnapshotConfig() *SnapshotConfig {
	return &SnapshotConfig{
		Schedule: config.DefaultSnapshotSchedule,
		TimeZone: config.DefaultTimeZone,
		Folder:   config.DefaultSnapshotFolder,
		Format:   "xlsx",
	}
}

// RunSnapshot writes one case export per client plus a messages CSV into
// <folder>/<clientId>/ and returns the files written.
func RunSnapshot(ctx context.Context, svc *portal.Service, cfg *SnapshotConfig, at time.Time) ([]string, error) {
	stamp := at.Format("20060102")
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "xlsx"
	}

	var written []string
	for _, clientID := range svc.ClientIDs(ctx) {
		dir := filepath.Join(cfg.Folder, safeName(clientID))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return written, fmt.Errorf("create snapshot folder: %w", err)
		}

		casesPath := filepath.Join(dir, fmt.Sprintf("cases_%s.%s", stamp, format))
		if err := writeFile(casesPath, func(f *os.File) error {
			return svc.ExportCases(ctx, clientID, format, f)
		}); err != nil {
			return written, err
		}
		written = append(written, casesPath)

		msgPath := filepath.Join(dir, fmt.Sprintf("messages_%s.csv", stamp))
		if err := writeFile(msgPath, func(f *os.File) error {
			return svc.ExportMessages(ctx, clientID, f)
		}); err != nil {
			return written, err
		}
		written = append(written, msgPath)
	}
	return written, nil
}

func writeFile(path string, fill func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
