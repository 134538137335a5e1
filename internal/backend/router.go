package backend

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/doeshing/wxq/internal/domain"
)

// NewRouter wires the weather API around catalog.
func NewRouter(catalog *Catalog, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/", helloHandler)
	r.Get(domain.DefaultHealthPath, healthHandler(catalog))
	r.Get(domain.DefaultLookupPath, weatherHandler(catalog))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	return r
}

func helloHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []string{"hello world"})
}

func healthHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"cities": catalog.Len(),
		})
	}
}

func weatherHandler(catalog *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimSpace(r.URL.Query().Get(domain.CityQueryParam))
		if city == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "city query parameter is required"})
			return
		}
		result, ok := catalog.Lookup(city)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no weather data for " + city})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
