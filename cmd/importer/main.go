package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/Unaivero/financiera-ancestral/config"
	"github.com/Unaivero/financiera-ancestral/internal/adapters/repository/postgres"
	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
	"github.com/Unaivero/financiera-ancestral/internal/importer"
	pkgconfig "github.com/Unaivero/financiera-ancestral/pkg/config"
)

func main() {
	var (
		csvPath     = flag.String("csv", "", "path to a Stooq daily CSV (Date,Open,High,Low,Close,Volume)")
		symbol      = flag.String("symbol", "", "ticker symbol, e.g. SPY")
		companyName = flag.String("name", "", "company name")
		sector      = flag.String("sector", "", "sector label")
		market      = flag.String("market", "NYSE", "market: NYSE, Frankfurt, Tokyo or Hong Kong")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := config.LoadConfig()

	deps, err := pkgconfig.NewDependencies(
		ctx,
		pkgconfig.WithLogger(cfg.Server.LogLvl),
		pkgconfig.WithPostgres(
			cfg.Postgres.User,
			cfg.Postgres.Pass,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.DBName,
		),
	)
	if err != nil {
		slog.Error("failed to load dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()
	logger := deps.Logger

	if *csvPath == "" || *symbol == "" {
		logger.Error("both -csv and -symbol are required")
		flag.Usage()
		os.Exit(2)
	}

	mkt, ok := domain.ParseMarket(*market)
	if !ok {
		logger.Error("unknown market", slog.String("market", *market))
		os.Exit(2)
	}

	sym, err := domain.NormalizeSymbol(*symbol)
	if err != nil {
		logger.Error("invalid symbol", slog.String("symbol", *symbol))
		os.Exit(2)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		logger.Error("failed to open csv", slog.Any("error", err))
		os.Exit(1)
	}
	defer file.Close()

	bars, err := importer.ParseCSV(file)
	if err != nil {
		logger.Error("failed to parse csv", slog.Any("error", err))
		os.Exit(1)
	}

	records := importer.SummarizeByDecade(bars, sym, *companyName, *sector, mkt)

	repo := postgres.NewStockRepository(deps.Postgres, logger)
	inserted := 0
	for _, rec := range records {
		if err := repo.InsertRecord(ctx, rec); err != nil {
			logger.Error("failed to insert record", slog.String("key", rec.Key()), slog.Any("error", err))
			os.Exit(1)
		}
		inserted++
	}

	logger.Info("import complete",
		slog.String("symbol", sym),
		slog.Int("decades", inserted),
		slog.Int("daily_bars", len(bars)),
	)
}
