package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
	"github.com/Unaivero/financiera-ancestral/internal/core/port"
	jsonresponse "github.com/Unaivero/financiera-ancestral/pkg/JSONResponse"
)

// Pinger reports the health of one dependency as a short status string.
type Pinger interface {
	Ping(ctx context.Context) string
}

// QueryHandler maps HTTP requests onto the query service and its outcomes
// back onto status codes. All filter strings pass through as-is; validation
// happens once inside the core.
type QueryHandler struct {
	queries port.QueryServicePort
	storeHC Pinger
	cacheHC Pinger
	logger  *slog.Logger
}

func NewQueryHandler(logger *slog.Logger, queries port.QueryServicePort, storeHC, cacheHC Pinger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		storeHC: storeHC,
		cacheHC: cacheHC,
		logger:  logger,
	}
}

// ClientID identifies the requesting client: the first X-Forwarded-For hop
// when present, otherwise the remote address without its port.
func ClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *QueryHandler) write(w http.ResponseWriter, r *http.Request, result domain.QueryResult, err error) {
	if err != nil {
		jsonresponse.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("X-Cache", string(result.Source))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Payload); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

func (h *QueryHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := domain.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}

	if h.storeHC != nil {
		resp.Postgres = h.storeHC.Ping(r.Context())
	}
	if h.cacheHC != nil {
		resp.Redis = h.cacheHC.Ping(r.Context())
	}

	status := http.StatusOK
	if !strings.HasPrefix(resp.Postgres, "up") {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	jsonresponse.WriteResponse(w, status, resp)
}

func (h *QueryHandler) GetDecades(w http.ResponseWriter, r *http.Request) {
	result, err := h.queries.Decades(r.Context(), ClientID(r))
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	result, err := h.queries.Markets(r.Context(), ClientID(r))
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetDecadeData(w http.ResponseWriter, r *http.Request) {
	result, err := h.queries.DecadeData(r.Context(), ClientID(r), r.PathValue("decade"))
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetMarketData(w http.ResponseWriter, r *http.Request) {
	result, err := h.queries.MarketData(
		r.Context(),
		ClientID(r),
		r.PathValue("market"),
		r.URL.Query().Get("decade"),
	)
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.queries.StockHistory(r.Context(), ClientID(r), r.PathValue("symbol"))
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			jsonresponse.WriteError(w, domain.NewQueryError(
				domain.ErrInvalidFilter, "limit must be an integer", err))
			return
		}
		limit = parsed
	}

	result, err := h.queries.TopPerformers(
		r.Context(),
		ClientID(r),
		q.Get("decade"),
		q.Get("market"),
		limit,
	)
	h.write(w, r, result, err)
}

func (h *QueryHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.queries.Statistics(r.Context(), ClientID(r), q.Get("decade"), q.Get("market"))
	h.write(w, r, result, err)
}

func (h *QueryHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = "csv"
	}

	result, err := h.queries.Export(r.Context(), ClientID(r), q.Get("decade"), q.Get("market"), format)
	if err != nil {
		jsonresponse.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename(q.Get("decade"), q.Get("market"), format))
	h.write(w, r, result, nil)
}

func exportFilename(decade, market, format string) string {
	if decade == "" {
		decade = "all"
	}
	if market == "" {
		market = "all"
	}
	name := "financiera_data_" + decade + "_" + market + "." + format
	return strings.ReplaceAll(name, " ", "_")
}
