// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linequad/linequad/pkg/log"
)

// StatsAPI is the read-only HTTP surface over an Engine: node/element
// counts, the current visualization extract, and one-shot candidate
// queries. Routing/middleware wiring follows server.go's mux.NewRouter +
// gorilla/handlers CORS/compression/logging stack, narrowed to three
// GET-only routes behind a single bearer token.
type StatsAPI struct {
	engine *Engine
	auth   *statsAuth
	router *mux.Router
}

// NewStatsAPI builds the router and mints the bearer token the API will
// require on every route except /metrics.
func NewStatsAPI(e *Engine) (*StatsAPI, error) {
	auth, err := newStatsAuth()
	if err != nil {
		return nil, err
	}

	api := &StatsAPI{engine: e, auth: auth}
	api.router = mux.NewRouter()
	api.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	protected := api.router.PathPrefix("/").Subrouter()
	protected.HandleFunc("/stats", api.handleStats).Methods(http.MethodGet)
	protected.HandleFunc("/overlay", api.handleOverlay).Methods(http.MethodGet)
	protected.HandleFunc("/candidates/{lineID}", api.handleCandidates).Methods(http.MethodGet)
	protected.Use(auth.middleware)

	log.Infof("broadphase: stats API bearer token: %s", auth.Token())
	return api, nil
}

// Handler returns the fully wrapped http.Handler, CORS/compression/logging
// included, suitable for http.ListenAndServe.
func (api *StatsAPI) Handler() http.Handler {
	wrapped := handlers.CompressHandler(api.router)
	wrapped = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(wrapped)
	wrapped = handlers.CORS(
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedOrigins([]string{"*"}),
	)(wrapped)
	return handlers.CustomLoggingHandler(io.Discard, wrapped, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Infof("broadphase: %s %s -> %d", params.Request.Method, params.URL.Path, params.StatusCode)
	})
}

type statsResponse struct {
	NumLines    int   `json:"num_lines"`
	NumNodes    int   `json:"num_nodes"`
	NumElements int   `json:"num_elements"`
	Step        int64 `json:"step"`
}

func (api *StatsAPI) handleStats(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, statsResponse{
		NumLines:    api.engine.NumLines(),
		NumNodes:    api.engine.NumNodes(),
		NumElements: api.engine.NumElements(),
		Step:        api.engine.LastStep().Step,
	})
}

func (api *StatsAPI) handleOverlay(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, api.engine.Overlay())
}

func (api *StatsAPI) handleCandidates(rw http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["lineID"]
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(rw, "invalid lineID", http.StatusBadRequest)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			http.Error(rw, "unknown lineID", http.StatusNotFound)
		}
	}()
	writeJSON(rw, api.engine.Candidates(uint32(id), 0))
}

func writeJSON(rw http.ResponseWriter, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		log.Errorf("broadphase: encode response: %v", err)
	}
}
