package api

import (
	"net/http"
	"time"

	"CurveScout/internal/domain/models"
	drepo "CurveScout/internal/domain/repository"
	dsvc "CurveScout/internal/domain/service"
	"CurveScout/internal/service/ratelimit"
	xhttp "CurveScout/pkg/http"
	xlogger "CurveScout/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler serves ranked signals from the run cache and accepts
// run trigger requests.
type SignalsHandler struct {
	cache      drepo.RunCache
	store      drepo.SnapshotStore
	dispatcher dsvc.RunDispatcher
	rl         *ratelimit.Limiter
	runsPerMin float64
	logger     *xlogger.Logger
}

func NewSignalsHandler(
	cache drepo.RunCache,
	store drepo.SnapshotStore,
	dispatcher dsvc.RunDispatcher,
	runsPerMin float64,
	logger *xlogger.Logger,
) *SignalsHandler {
	return &SignalsHandler{
		cache:      cache,
		store:      store,
		dispatcher: dispatcher,
		rl:         ratelimit.New(),
		runsPerMin: runsPerMin,
		logger:     logger,
	}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/runs/latest", h.LatestRun)
	g.POST("/runs", h.TriggerRun)
	e.GET("/healthz", h.Health)
}

type signalsResponse struct {
	DataDate    string           `json:"data_date"`
	GeneratedAt time.Time        `json:"generated_at"`
	Signals     []*models.Signal `json:"signals"`
}

func (h *SignalsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, found, err := h.lookupRun(c, req.Date)
	if err != nil {
		h.logger.Error("signals run lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if !found {
		return xhttp.NotFoundResponse(c, "no run available for requested date")
	}

	out := signalsResponse{
		DataDate:    res.DataDate.Format("2006-01-02"),
		GeneratedAt: res.GeneratedAt,
		Signals:     []*models.Signal{},
	}
	for name, sr := range res.Strategies {
		if req.Strategy != "" && req.Strategy != name {
			continue
		}
		if req.Direction != string(models.DirectionSell) {
			out.Signals = append(out.Signals, sr.BuySignals...)
		}
		if req.Direction != string(models.DirectionBuy) {
			out.Signals = append(out.Signals, sr.SellSignals...)
		}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, out)
}

func (h *SignalsHandler) LatestRun(c echo.Context) error {
	res, found, err := h.cache.GetLatestRun(c.Request().Context())
	if err != nil {
		h.logger.Error("latest run lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if !found {
		return xhttp.NotFoundResponse(c, "no run available yet")
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) TriggerRun(c echo.Context) error {
	req := &models.RunRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":run", 1, h.runsPerMin/60) {
		h.logger.Warn("run trigger rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	var target time.Time
	if req.Date != "" {
		var err error
		target, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return xhttp.BadRequestResponse(c, "date must be YYYY-MM-DD")
		}
	}

	if err := h.dispatcher.Dispatch(c.Request().Context(), target); err != nil {
		h.logger.Error("run dispatch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *SignalsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// lookupRun resolves either the latest run or the run for a given date.
func (h *SignalsHandler) lookupRun(c echo.Context, date string) (*models.RunResult, bool, error) {
	ctx := c.Request().Context()
	if date == "" {
		return h.cache.GetLatestRun(ctx)
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, false, xhttp.BadRequestError("date must be YYYY-MM-DD")
	}
	return h.cache.GetRun(ctx, d)
}
