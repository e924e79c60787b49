package api

import (
	"time"

	domrepo "PumpScan/internal/domain/repository"
	"PumpScan/internal/usecase"
	xhttp "PumpScan/pkg/http"
	xlogger "PumpScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves the signal feed and health probes.
type SignalsHandler struct {
	logger     *xlogger.Logger
	store      domrepo.SignalStore
	scanner    *usecase.Scanner
	stream     *StreamHub
	staleAfter time.Duration
}

// NewSignalsHandler creates the handler. staleAfter bounds the age of the
// last completed cycle before health reports the scan loop stalled; zero
// disables the check.
func NewSignalsHandler(logger *xlogger.Logger, store domrepo.SignalStore, scanner *usecase.Scanner, stream *StreamHub, staleAfter time.Duration) *SignalsHandler {
	return &SignalsHandler{logger: logger, store: store, scanner: scanner, stream: stream, staleAfter: staleAfter}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/health", h.Health)
	if h.stream != nil {
		g.GET("/signals/live", h.stream.Serve)
	}
}

// Signals returns the stored signals, newest first, as a bare JSON
// array. Dashboards consume it directly, so there is no envelope; an
// empty store yields [].
func (h *SignalsHandler) Signals(c echo.Context) error {
	list := h.store.List()
	h.logger.Debug("signals served", xlogger.Int("count", len(list)))
	return xhttp.RawJSONResponse(c, list)
}

type healthResponse struct {
	Status  string         `json:"status"`
	Scanner usecase.Status `json:"scanner"`
}

// Health reports process liveness and scan-loop progress. A loop that
// has run before but not completed a cycle within staleAfter is reported
// as stalled with a 503.
func (h *SignalsHandler) Health(c echo.Context) error {
	st := h.scanner.Status()
	if h.staleAfter > 0 && st.Cycles > 0 && time.Since(st.LastCycle) > h.staleAfter {
		h.logger.Warn("health check failed, scan loop stalled",
			xlogger.Any("last_cycle", st.LastCycle),
		)
		return xhttp.UnavailableError("ERR_SCAN_STALLED", "scan loop has stalled")
	}
	return xhttp.SuccessResponse(c, healthResponse{
		Status:  "ok",
		Scanner: st,
	})
}
