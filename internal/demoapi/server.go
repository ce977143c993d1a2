package demoapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"promstack/pkg/types"
)

// zlog is an optional structured logger. If unset, the HTTP layer stays quiet.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// slowPathDelay is the artificial latency injected by /items/{id}?slow=true
// to make the latency histogram interesting.
const slowPathDelay = 400 * time.Millisecond

// NewMux builds the demo API router. ins may be nil when OTLP export is
// disabled; the Prometheus-side middleware is always attached.
func NewMux(store *OrderStore, ins *Instruments) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if ins != nil {
		r.Use(ins.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
	})

	r.Get("/items/{item_id}", func(w http.ResponseWriter, r *http.Request) {
		itemID, err := strconv.Atoi(chi.URLParam(r, "item_id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "item_id must be an integer")
			return
		}
		if itemID < 0 {
			writeJSONError(w, http.StatusBadRequest, "item_id must be positive")
			return
		}
		slow := truthyParam(r.URL.Query().Get("slow"))
		if slow {
			time.Sleep(slowPathDelay)
		}
		writeJSON(w, http.StatusOK, types.ItemResponse{ItemID: itemID, Detail: "Sample item", SlowPath: slow})
	})

	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		var order types.Order
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		pending := store.Add(order)
		if zlog != nil {
			zlog.Info().Int("item_id", order.ItemID).Int("pending", pending).Msg("order created")
		}
		writeJSON(w, http.StatusOK, types.OrderResponse{Status: "created", Order: &order, PendingOrders: pending})
	})

	r.Delete("/orders/{item_id}", func(w http.ResponseWriter, r *http.Request) {
		itemID, err := strconv.Atoi(chi.URLParam(r, "item_id"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "item_id must be an integer")
			return
		}
		removed, pending := store.RemoveByItem(itemID)
		writeJSON(w, http.StatusOK, types.OrderResponse{Status: "deleted", Removed: removed, PendingOrders: pending})
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// truthyParam accepts the usual boolean query-param spellings.
func truthyParam(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
