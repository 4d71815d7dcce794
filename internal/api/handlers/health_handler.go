package handlers

import (
	"database/sql"
	"net/http"

	"github.com/avelez/photodeck-be/internal/objectstore"
)

// HealthHandler reports the reachability of the backing services.
type HealthHandler struct {
	db    *sql.DB
	store objectstore.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, store objectstore.Store) *HealthHandler {
	return &HealthHandler{db: db, store: store}
}

// Check pings the database and the object store and reports per-service
// status. The endpoint itself always answers 200; degradation shows in the
// body.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"database":     pingStatus(h.db.PingContext(r.Context())),
		"object_store": pingStatus(h.store.Ping(r.Context())),
	}

	status := "healthy"
	unhealthy := []string{}
	for name, s := range services {
		if s != "healthy" {
			status = "degraded"
			unhealthy = append(unhealthy, name)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             status,
		"services":           services,
		"unhealthy_services": unhealthy,
	})
}

func pingStatus(err error) string {
	if err != nil {
		return "unhealthy"
	}
	return "healthy"
}
