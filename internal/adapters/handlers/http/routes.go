package http

import (
	"net/http"

	"github.com/Unaivero/financiera-ancestral/internal/adapters/handlers/http/handler"
)

func addRoutes(mux *http.ServeMux, queryHandler *handler.QueryHandler) {
	mux.HandleFunc("GET /api/health", queryHandler.Health)
	mux.HandleFunc("GET /api/data/decades", queryHandler.GetDecades)
	mux.HandleFunc("GET /api/data/markets", queryHandler.GetMarkets)
	mux.HandleFunc("GET /api/data/decade/{decade}", queryHandler.GetDecadeData)
	mux.HandleFunc("GET /api/data/market/{market}", queryHandler.GetMarketData)
	mux.HandleFunc("GET /api/data/stock/{symbol}", queryHandler.GetStockHistory)
	mux.HandleFunc("GET /api/data/top-performers", queryHandler.GetTopPerformers)
	mux.HandleFunc("GET /api/data/statistics", queryHandler.GetStatistics)
	mux.HandleFunc("GET /api/data/export", queryHandler.ExportData)
}
