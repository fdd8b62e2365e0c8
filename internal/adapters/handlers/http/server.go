package http

import (
	"log/slog"
	"net/http"

	"github.com/Unaivero/financiera-ancestral/internal/adapters/handlers/http/handler"
)

// NewServer assembles the route table and middleware chain.
func NewServer(logger *slog.Logger, queryHandler *handler.QueryHandler) http.Handler {
	mux := http.NewServeMux()
	addRoutes(mux, queryHandler)

	var h http.Handler = mux
	h = securityHeaders(h)
	h = requestLogger(logger, h)

	return h
}
