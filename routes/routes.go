package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coolbooks_server/controllers"
)

// RegisterRoutes sets up the routes every deployment has
func RegisterRoutes(r *mux.Router) {
	r.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowedHandler)

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// RegisterSocketRoutes mounts the socket.io handler
func RegisterSocketRoutes(r *mux.Router, handler http.Handler) {
	r.PathPrefix("/socket.io/").Handler(handler)
}
