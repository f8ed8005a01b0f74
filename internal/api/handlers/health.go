package handlers

import (
	"net/http"

	"github.com/dvloznov/finance-docproc/internal/api/middleware"
)

// Health handles GET / and GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
