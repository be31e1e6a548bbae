package router

import (
	"net/http"

	"sweetshop/internal/config"
	"sweetshop/internal/handlers"
	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/repository"
	"sweetshop/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func SetupRouter(cfg config.Config, logger zerolog.Logger, users repository.UserRepository, sweets repository.SweetRepository) *mux.Router {
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := services.NewUserService(users, hasher, logger)
	sweetService := services.NewSweetService(sweets, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	sweetHandler := handlers.NewSweetHandler(sweetService, logger)

	authenticated := middleware.Authentication(authService, users, logger)
	adminOnly := middleware.RequireRole(string(models.RoleAdmin))

	r := mux.NewRouter()

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RequestValidation())

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	protectedAuth := auth.PathPrefix("").Subrouter()
	protectedAuth.Use(authenticated)
	protectedAuth.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Every sweets route requires authentication; admin-only operations are
	// additionally gated per route, after the authentication middleware.
	sweetsAPI := api.PathPrefix("/sweets").Subrouter()
	sweetsAPI.Use(authenticated)
	sweetsAPI.Handle("", adminOnly(http.HandlerFunc(sweetHandler.Create))).Methods("POST")
	sweetsAPI.HandleFunc("", sweetHandler.List).Methods("GET")
	sweetsAPI.HandleFunc("/search", sweetHandler.Search).Methods("GET")
	sweetsAPI.Handle("/{id}", adminOnly(http.HandlerFunc(sweetHandler.Update))).Methods("PUT")
	sweetsAPI.Handle("/{id}", adminOnly(http.HandlerFunc(sweetHandler.Delete))).Methods("DELETE")
	sweetsAPI.HandleFunc("/{id}/purchase", sweetHandler.Purchase).Methods("POST")
	sweetsAPI.Handle("/{id}/restock", adminOnly(http.HandlerFunc(sweetHandler.Restock))).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
