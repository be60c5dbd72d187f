package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"coolbooks_server/controllers"
	"coolbooks_server/middleware"
)

// RegisterBookRoutes registers the authenticated /books endpoints
func RegisterBookRoutes(r *mux.Router, controller *controllers.BookController, auth mux.MiddlewareFunc, log *zap.Logger) {
	bookRouter := r.PathPrefix("/books").Subrouter()
	bookRouter.Use(middleware.RequestLogger(log), auth)

	bookRouter.HandleFunc("", controller.GetBooks).Methods("GET")    // ✅ Matches for the caller
	bookRouter.HandleFunc("", controller.CreateBook).Methods("POST") // ✅ Create a listing
}
