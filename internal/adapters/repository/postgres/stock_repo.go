package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.StorePort = (*StockRepository)(nil)

// StockRepository is the read accessor over the stock_data table. Records
// come back ordered by decade, market, symbol; callers needing a different
// order sort in the engine.
type StockRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewStockRepository(db *pgxpool.Pool, logger *slog.Logger) *StockRepository {
	return &StockRepository{
		db:     db,
		logger: logger,
	}
}

// Ping checks the connection to the database.
func (r *StockRepository) Ping(ctx context.Context) string {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Sprintf("down: %v", err)
	}
	return "up"
}

const selectColumns = `
	symbol, company_name, sector, market, decade,
	start_date, end_date, start_price, end_price,
	total_return, avg_volume, volatility, data_points
`

// buildFindQuery turns a typed filter into a SELECT with positional args.
// Omitted filter fields put no constraint on the query. Symbols are stored
// and filtered in normalized uppercase form, so plain equality keeps the
// (symbol, decade) index usable.
func buildFindQuery(filter domain.QueryFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.Decade != "" {
		args = append(args, string(filter.Decade))
		conditions = append(conditions, fmt.Sprintf("decade = $%d", len(args)))
	}
	if filter.Market != "" {
		args = append(args, string(filter.Market))
		conditions = append(conditions, fmt.Sprintf("market = $%d", len(args)))
	}
	if filter.Symbol != "" {
		args = append(args, filter.Symbol)
		conditions = append(conditions, fmt.Sprintf("symbol = $%d", len(args)))
	}

	query := "SELECT " + selectColumns + " FROM stock_data"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY decade, market, symbol"

	return query, args
}

// Find returns the records matching a typed filter.
func (r *StockRepository) Find(ctx context.Context, filter domain.QueryFilter) ([]domain.StockRecord, error) {
	query, args := buildFindQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query stock records", slog.Any("error", err))
		return nil, domain.NewQueryError(domain.ErrStoreUnavailable, "record store query failed", err)
	}
	defer rows.Close()

	var records []domain.StockRecord
	for rows.Next() {
		var rec domain.StockRecord
		err := rows.Scan(
			&rec.Symbol,
			&rec.CompanyName,
			&rec.Sector,
			&rec.Market,
			&rec.Decade,
			&rec.StartDate,
			&rec.EndDate,
			&rec.StartPrice,
			&rec.EndPrice,
			&rec.TotalReturn,
			&rec.AvgVolume,
			&rec.Volatility,
			&rec.DataPointCount,
		)
		if err != nil {
			r.logger.Error("failed to scan stock record", slog.Any("error", err))
			return nil, domain.NewQueryError(domain.ErrStoreUnavailable, "record store scan failed", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to read stock records", slog.Any("error", err))
		return nil, domain.NewQueryError(domain.ErrStoreUnavailable, "record store read failed", err)
	}

	return records, nil
}

// InsertRecord upserts one decade-summary row. Used only by the offline
// importer; the serving core never writes.
func (r *StockRepository) InsertRecord(ctx context.Context, rec domain.StockRecord) error {
	query := `
		INSERT INTO stock_data (
			symbol, company_name, sector, market, decade,
			start_date, end_date, start_price, end_price,
			total_return, avg_volume, volatility, data_points
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (symbol, decade, market) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		rec.Symbol,
		rec.CompanyName,
		rec.Sector,
		string(rec.Market),
		string(rec.Decade),
		rec.StartDate,
		rec.EndDate,
		rec.StartPrice,
		rec.EndPrice,
		rec.TotalReturn,
		rec.AvgVolume,
		rec.Volatility,
		rec.DataPointCount,
	)
	if err != nil {
		r.logger.Error("failed to insert stock record",
			slog.String("key", rec.Key()),
			slog.Any("error", err))
		return err
	}

	return nil
}
