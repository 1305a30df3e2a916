package catalog

import (
	"context"
	"fmt"
)

const assetsDDL = `
CREATE TABLE IF NOT EXISTS assets (
	name              TEXT NOT NULL,
	source_kind       TEXT NOT NULL,
	source_origin     TEXT NOT NULL,
	priority          INTEGER NOT NULL,
	method            INTEGER,
	compressed_size   INTEGER,
	uncompressed_size INTEGER,
	shadowed          INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (name, source_origin)
);
CREATE INDEX IF NOT EXISTS idx_assets_name ON assets (name);
CREATE INDEX IF NOT EXISTS idx_assets_origin ON assets (source_origin);
`

// CreateSchema creates the assets table and its indexes
func (c *Catalog) CreateSchema(ctx context.Context) error {
	if _, err := c.Exec(ctx, assetsDDL); err != nil {
		return fmt.Errorf("creating assets schema: %w", err)
	}
	return nil
}

// Reset drops any previous inventory so a fresh scan starts clean
func (c *Catalog) Reset(ctx context.Context) error {
	if _, err := c.Exec(ctx, `DROP TABLE IF EXISTS assets`); err != nil {
		return fmt.Errorf("dropping assets table: %w", err)
	}
	return c.CreateSchema(ctx)
}
