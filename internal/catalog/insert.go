package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/evilstubb/dgenrs/internal/asset"
)

// Record is one row of the asset inventory.
type Record struct {
	Name             string
	SourceKind       string
	SourceOrigin     string
	Priority         uint
	Method           *uint16
	CompressedSize   *int64
	UncompressedSize *int64
	// Shadowed marks names that a higher-priority source also carries, so
	// this copy never wins resolution.
	Shadowed bool
}

// Scan walks every source registered on the search path and produces one
// record per resolvable asset.
func Scan(sp *asset.SearchPath) ([]Record, error) {
	var records []Record
	seen := make(map[string]bool)

	for _, reg := range sp.Sources() {
		for _, name := range reg.Source.Names() {
			rec := Record{
				Name:         name,
				SourceOrigin: reg.Source.Origin(),
				Priority:     reg.Priority,
				Shadowed:     seen[name],
			}

			switch src := reg.Source.(type) {
			case *asset.ZipSource:
				rec.SourceKind = "zip"
				info, err := src.Entry(name)
				if err != nil {
					return nil, fmt.Errorf("reading entry %q from %s: %w", name, src.Origin(), err)
				}
				method := info.Method
				compressed := int64(info.CompressedSize)
				uncompressed := int64(info.UncompressedSize)
				rec.Method = &method
				rec.CompressedSize = &compressed
				rec.UncompressedSize = &uncompressed
			case *asset.DirectorySource:
				rec.SourceKind = "dir"
				info, err := os.Stat(filepath.Join(src.Origin(), filepath.FromSlash(name)))
				if err != nil {
					return nil, fmt.Errorf("reading %q from %s: %w", name, src.Origin(), err)
				}
				size := info.Size()
				rec.CompressedSize = &size
				rec.UncompressedSize = &size
			default:
				rec.SourceKind = "unknown"
			}

			seen[name] = true
			records = append(records, rec)
		}
	}

	return records, nil
}

// InsertRecords writes the scanned inventory in a single transaction.
func (c *Catalog) InsertRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO assets
			(name, source_kind, source_origin, priority, method,
			 compressed_size, uncompressed_size, shadowed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.Name, rec.SourceKind, rec.SourceOrigin, rec.Priority,
			nullableUint16(rec.Method), nullableInt64(rec.CompressedSize),
			nullableInt64(rec.UncompressedSize), rec.Shadowed)
		if err != nil {
			return fmt.Errorf("inserting record for %q: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inventory: %w", err)
	}

	slog.Debug("Inventory written", "records", len(records))
	return nil
}

func nullableUint16(v *uint16) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
