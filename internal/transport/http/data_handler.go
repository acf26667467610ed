package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "histcli/internal/errors"
	"histcli/internal/services"
	"histcli/pkg/contracts/domain"
)

// DataHandler serves the dataset query API with RFC 7807 error responses.
type DataHandler struct {
	service      *services.DataService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service *services.DataService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the data API routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/symbols", h.GetSymbols)
	r.Get("/records", h.GetRecords)
	r.Get("/stats", h.GetStats)
	r.Get("/correlation", h.GetCorrelation)
	r.Get("/aggregate", h.GetAggregate)

	r.Route("/pivot/{column}", func(r chi.Router) {
		r.Use(h.ColumnCtx)
		r.Get("/", h.GetPivot)
	})
	r.Get("/returns/{symbol}", h.GetReturns)

	r.Post("/rebuild", h.Rebuild)

	return r
}

// ColumnCtx validates the column URL parameter before routing further.
func (h *DataHandler) ColumnCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		column := chi.URLParam(r, "column")
		if !domain.IsColumn(column) {
			h.errorHandler.HandleError(w, r, apierrors.ValidationProblem("unknown column: "+column))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSymbols handles GET /api/symbols.
func (h *DataHandler) GetSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.service.Symbols(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"symbols": symbols,
		"count":   len(symbols),
	})
}

// recordsQuery carries the validated GET /api/records parameters.
type recordsQuery struct {
	Symbols []string
	From    string `validate:"omitempty,datetime=2006-01-02"`
	To      string `validate:"omitempty,datetime=2006-01-02"`
}

// GetRecords handles GET /api/records. Optional query parameters:
// symbols (comma separated), from and to (inclusive YYYY-MM-DD bounds).
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	q := recordsQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		q.Symbols = strings.Split(raw, ",")
	}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationProblem("from/to must be YYYY-MM-DD dates"))
		return
	}

	filter := domain.RecordFilter{Symbols: q.Symbols}
	if q.From != "" {
		t, _ := time.Parse("2006-01-02", q.From)
		filter.DateFrom = &t
	}
	if q.To != "" {
		t, _ := time.Parse("2006-01-02", q.To)
		filter.DateTo = &t
	}

	records, err := h.service.Records(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetStats handles GET /api/stats?column=close.
func (h *DataHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	column := columnParam(r)
	stats, err := h.service.Stats(r.Context(), column)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"column": column,
		"stats":  stats,
	})
}

// GetCorrelation handles GET /api/correlation?column=close.
func (h *DataHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	column := columnParam(r)
	corr, err := h.service.Correlation(r.Context(), column)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"column":  column,
		"symbols": corr.Symbols,
		"values":  encodeMatrix(corr.Values),
	})
}

// GetPivot handles GET /api/pivot/{column}.
func (h *DataHandler) GetPivot(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	pivot, err := h.service.Pivot(r.Context(), column)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	dates := make([]string, len(pivot.Dates))
	for i, d := range pivot.Dates {
		dates[i] = d.Format("2006-01-02")
	}
	render.JSON(w, r, map[string]interface{}{
		"column":  column,
		"dates":   dates,
		"symbols": pivot.Symbols,
		"values":  encodeMatrix(pivot.Values),
	})
}

// GetAggregate handles GET /api/aggregate?column=volume&fn=sum.
func (h *DataHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	column := columnParam(r)
	fn := r.URL.Query().Get("fn")
	if fn == "" {
		fn = "sum"
	}

	result, err := h.service.Aggregate(r.Context(), column, fn)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"column": column,
		"fn":     fn,
		"result": result,
	})
}

// GetReturns handles GET /api/returns/{symbol}.
func (h *DataHandler) GetReturns(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	returns, err := h.service.Returns(r.Context(), symbol)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"symbol":  symbol,
		"returns": returns,
	})
}

// Rebuild handles POST /api/rebuild: re-reads the price directory and swaps
// in a fresh dataset snapshot.
func (h *DataHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "rebuild requested",
		slog.String("remote_addr", r.RemoteAddr))

	ds, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":   "rebuilt",
		"records":  ds.Len(),
		"symbols":  len(ds.Symbols()),
		"built_at": ds.BuiltAt().Format(time.RFC3339),
	})
}

func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotBuilt):
		h.errorHandler.HandleError(w, r, apierrors.NewProblem(
			apierrors.TypeDatasetEmpty, "Dataset not built", http.StatusNotFound,
			"No dataset has been built yet; POST /api/rebuild first"))
	case errors.Is(err, services.ErrUnknownColumn):
		h.errorHandler.HandleError(w, r, apierrors.ValidationProblem("unknown column"))
	case errors.Is(err, services.ErrUnknownAggregate):
		h.errorHandler.HandleError(w, r, apierrors.ValidationProblem("fn must be sum or mean"))
	case errors.Is(err, services.ErrSymbolNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundProblem("symbol not found"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func columnParam(r *http.Request) string {
	if column := r.URL.Query().Get("column"); column != "" {
		return column
	}
	return domain.ColumnClose
}

// encodeMatrix converts NaN cells to nil so the matrix survives JSON
// encoding.
func encodeMatrix(values [][]float64) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		encoded := make([]interface{}, len(row))
		for j, v := range row {
			if v != v { // NaN
				encoded[j] = nil
			} else {
				encoded[j] = v
			}
		}
		out[i] = encoded
	}
	return out
}
