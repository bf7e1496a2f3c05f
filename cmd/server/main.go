// @title           Katalog Miejsc API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"katalog-miejsc/internal/api"
	"katalog-miejsc/internal/auth"
	"katalog-miejsc/internal/config"
	"katalog-miejsc/internal/database"
	"katalog-miejsc/internal/models"
	"katalog-miejsc/internal/reaper"
	"katalog-miejsc/internal/websocket"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		log.Fatal("Sekrety JWT (access i refresh) muszą być ustawione")
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	store := database.NewStore(dbpool)

	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	google := auth.NewGoogleVerifier(cfg.Google.ClientID, cfg.Google.TokeninfoURL, cfg.Google.Timeout)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	sessionReaper := reaper.New(store, cfg.Reaper.Interval)
	go sessionReaper.Run(context.Background())
	log.Printf("Reaper sesji uruchomiony (interwał: %s)", cfg.Reaper.Interval)

	server := api.NewServer(cfg, store, tokens, google, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(api.MetricsMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/auth/register", server.RegisterHandler)
	r.Post("/api/v1/auth/verify", server.VerifyEmailHandler)
	r.Post("/api/v1/auth/login", server.LoginHandler)
	r.Post("/api/v1/auth/google", server.GoogleLoginHandler)
	r.Post("/api/v1/auth/refresh", server.RefreshTokenHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Post("/auth/logout", server.LogoutHandler)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/sessions", server.ListSessionsHandler)
		r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
		r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(api.RequireRole(models.RoleAdmin))
			r.Get("/users", server.ListUsersHandler)
		})
	})

	log.Println("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
