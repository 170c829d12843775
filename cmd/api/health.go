package main

import (
	"context"
	"net/http"
	"time"
)

var version = "0.1.0"

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Reports service status and database reachability
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	error
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.store.Ping(ctx); err != nil {
		app.logger.Errorw("health check: database unreachable", "error", err)
		data["status"] = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, data)
		return
	}

	app.jsonResponse(w, http.StatusOK, data)
}
