package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresCatalog looks parts up in the parts_master table.
type PostgresCatalog struct {
	pool   PgxPool
	logger *slog.Logger
}

// NewPostgresCatalog creates a catalog backed by the parts_master table.
func NewPostgresCatalog(pool PgxPool, logger *slog.Logger) *PostgresCatalog {
	return &PostgresCatalog{pool: pool, logger: logger}
}

const lookupQuery = `
	SELECT part_number, COALESCE(description, ''), COALESCE(hts_code, ''),
	       COALESCE(mid, ''), COALESCE(country_origin, ''),
	       steel_ratio, aluminum_ratio, copper_ratio, wood_ratio, auto_ratio,
	       non_steel_ratio, qty_unit, COALESCE(sec301_exclusion_tariff, '')
	FROM parts_master
	WHERE part_number = $1`

// Lookup fetches a part record. Misses and query errors both degrade to the
// defaulted not-found record; errors are logged, never propagated, so a
// catalog outage cannot halt a shipment batch.
func (c *PostgresCatalog) Lookup(ctx context.Context, partNumber string) PartRecord {
	var (
		rec     PartRecord
		qtyUnit string
	)

	err := c.pool.QueryRow(ctx, lookupQuery, partNumber).Scan(
		&rec.PartNumber,
		&rec.Description,
		&rec.HTSCode,
		&rec.MID,
		&rec.CountryOrigin,
		&rec.SteelPct,
		&rec.AluminumPct,
		&rec.CopperPct,
		&rec.WoodPct,
		&rec.AutoPct,
		&rec.NonSteelPct,
		&qtyUnit,
		&rec.Sec301Exclusion,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			c.logger.Error("parts catalog lookup failed",
				slog.String("part_number", partNumber),
				slog.Any("error", err),
			)
		}
		return NotFound(partNumber)
	}

	rec.QtyUnit = ParseQtyUnit(qtyUnit)
	rec.Found = true
	return rec
}

const upsertQuery = `
	INSERT INTO parts_master (
		part_number, description, hts_code, mid, country_origin,
		steel_ratio, aluminum_ratio, copper_ratio, wood_ratio, auto_ratio,
		non_steel_ratio, qty_unit, sec301_exclusion_tariff, last_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
	ON CONFLICT (part_number) DO UPDATE SET
		description = EXCLUDED.description,
		hts_code = EXCLUDED.hts_code,
		mid = EXCLUDED.mid,
		country_origin = EXCLUDED.country_origin,
		steel_ratio = EXCLUDED.steel_ratio,
		aluminum_ratio = EXCLUDED.aluminum_ratio,
		copper_ratio = EXCLUDED.copper_ratio,
		wood_ratio = EXCLUDED.wood_ratio,
		auto_ratio = EXCLUDED.auto_ratio,
		non_steel_ratio = EXCLUDED.non_steel_ratio,
		qty_unit = EXCLUDED.qty_unit,
		sec301_exclusion_tariff = EXCLUDED.sec301_exclusion_tariff,
		last_updated = now()`

// Upsert inserts or updates a part record, used by catalog CSV imports.
func (c *PostgresCatalog) Upsert(ctx context.Context, rec PartRecord, qtyUnitCode string) error {
	_, err := c.pool.Exec(ctx, upsertQuery,
		rec.PartNumber,
		rec.Description,
		rec.HTSCode,
		rec.MID,
		rec.CountryOrigin,
		rec.SteelPct,
		rec.AluminumPct,
		rec.CopperPct,
		rec.WoodPct,
		rec.AutoPct,
		rec.NonSteelPct,
		qtyUnitCode,
		rec.Sec301Exclusion,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert part %s: %w", rec.PartNumber, err)
	}
	return nil
}
