package caseimport

import (
	"context"
	"fmt"
	"log"
	"time"

	"CollectPortal/internal/checksum"
	"CollectPortal/internal/models"
	"CollectPortal/internal/reconcile"
	"CollectPortal/internal/store"
)

// Summary reports the outcome of one import.
type Summary struct {
	FileName    string `json:"fileName,omitempty"`
	FileHash    string `json:"fileHash,omitempty"`
	Rows        int    `json:"rows"`
	Imported    int    `json:"imported"`
	Inserted    int    `json:"inserted"`
	Updated     int    `json:"updated"`
	Skipped     int    `json:"skipped"`
	SkippedRows []int  `json:"skippedRows,omitempty"`
	// set when the same file was imported before for this client
	PreviouslyImportedAt string `json:"previouslyImportedAt,omitempty"`
	TotalCases           int    `json:"totalCases"`

	Cases []models.CaseRecord `json:"-"`
}

// Importer runs uploads through normalization, reconciliation and the upsert
// merge, then persists the client's new case collection.
type Importer struct {
	store      store.Store
	normalizer *Normalizer
	registry   *checksum.Registry
	now        func() time.Time
}

func NewImporter(st store.Store, aliases AliasTable) *Importer {
	return &Importer{
		store:      st,
		normalizer: NewNormalizer(aliases),
		registry:   checksum.NewRegistry(),
		now:        time.Now,
	}
}

// ImportFile parses an uploaded file and imports its rows. Unsupported or
// empty files return a zero-row summary with ErrUnsupportedFileType or
// ErrEmptyFile.
func (im *Importer) ImportFile(ctx context.Context, clientID, filename string, data []byte) (Summary, error) {
	sum := Summary{FileName: filename, FileHash: checksum.Fingerprint(data)}

	rows, err := ParseFile(filename, data)
	if err != nil {
		return sum, err
	}

	if at, ok := im.registry.Seen(clientID, sum.FileHash); ok {
		sum.PreviouslyImportedAt = at.UTC().Format(time.RFC3339)
		log.Printf("[WARN] import: %s for client %q matches an earlier upload from %s", filename, clientID, sum.PreviouslyImportedAt)
	}

	res, err := im.ImportRows(ctx, clientID, rows)
	res.FileName, res.FileHash, res.PreviouslyImportedAt = sum.FileName, sum.FileHash, sum.PreviouslyImportedAt
	if err != nil {
		return res, err
	}
	im.registry.Record(clientID, sum.FileHash, im.now())
	return res, nil
}

// ImportRows merges already parsed rows into the client's stored cases.
func (im *Importer) ImportRows(ctx context.Context, clientID string, rows []Row) (Summary, error) {
	partials := make([]models.CaseRecord, 0, len(rows))
	for _, row := range rows {
		partials = append(partials, im.normalizer.Normalize(row))
	}

	existing := im.store.Load(ctx, clientID).Cases
	res := reconcile.Merge(existing, partials, clientID)
	for _, n := range res.SkippedRows {
		log.Printf("[INFO] import: row %d has no case id, skipped", n)
	}

	sum := Summary{
		Rows:        len(rows),
		Imported:    res.Imported,
		Inserted:    res.Inserted,
		Updated:     res.Updated,
		Skipped:     res.Skipped,
		SkippedRows: res.SkippedRows,
		TotalCases:  len(res.Cases),
		Cases:       res.Cases,
	}
	if err := im.store.SaveCases(ctx, clientID, res.Cases); err != nil {
		return sum, fmt.Errorf("save imported cases: %w", err)
	}
	log.Printf("[INFO] import: client %q imported=%d inserted=%d updated=%d skipped=%d", clientID, sum.Imported, sum.Inserted, sum.Updated, sum.Skipped)
	return sum, nil
}
