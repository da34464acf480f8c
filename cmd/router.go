package main

import (
	"net/http"

	"github.com/angeloszaimis/account-rotator/internal/handler"
	"github.com/angeloszaimis/account-rotator/internal/metrics"
)

func setupRouter(statusHandler *handler.StatusHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", statusHandler.Status)
	mux.HandleFunc("/healthz", statusHandler.Healthz)
	mux.HandleFunc("/metrics", metricsCollector.Handler())

	return mux
}
