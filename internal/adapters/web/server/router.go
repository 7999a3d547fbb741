package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avidal-labs/lanwarden/internal/adapters/web/middleware"
)

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	// 5 attempts a minute keeps credential guessing slow without locking
	// out a fat-fingered login.
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	r.Handle("/api/login", loginLimiter.Middleware(http.HandlerFunc(s.authHandler.HandleLogin))).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.authHandler.HandleLogout).Methods(http.MethodPost)

	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.SessionAuth(s.auth))

	api.HandleFunc("/api/devices", s.deviceHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/api/devices/{mac}", s.deviceHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/api/devices/{mac}", s.deviceHandler.HandleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/api/devices/{mac}/ports", s.deviceHandler.HandlePorts).Methods(http.MethodGet)
	api.HandleFunc("/api/devices/{mac}/fingerprint", s.deviceHandler.HandleForceFingerprint).Methods(http.MethodPost)
	api.HandleFunc("/api/devices/{mac}/important", s.deviceHandler.HandleMarkImportant).Methods(http.MethodPost)

	api.HandleFunc("/api/events", s.eventHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/api/speedtests", s.monitoringHandler.HandleSpeedTests).Methods(http.MethodGet)
	api.HandleFunc("/api/websites", s.monitoringHandler.HandleWebsites).Methods(http.MethodGet)
	api.HandleFunc("/api/security", s.monitoringHandler.HandleSecurity).Methods(http.MethodGet)
	api.HandleFunc("/api/modules", s.modulesHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/api/status", s.statusHandler.HandleStatus).Methods(http.MethodGet)
	api.HandleFunc("/api/settings", s.settingsHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/api/settings", s.settingsHandler.HandleUpdate).Methods(http.MethodPut)

	api.HandleFunc("/api/admin/wipe", s.adminHandler.HandleWipe).Methods(http.MethodPost)
	api.HandleFunc("/api/admin/destroy", s.adminHandler.HandleDestroy).Methods(http.MethodPost)

	api.HandleFunc("/api/report/pdf", s.exportHandler.HandlePDF).Methods(http.MethodGet)
	api.HandleFunc("/api/export/devices.csv", s.exportHandler.HandleCSV).Methods(http.MethodGet)

	api.HandleFunc("/ws", s.hub.HandleWS)
	api.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
