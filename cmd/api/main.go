package main

import (
	"log"
	"net/http"
	"os"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"balance-backend/internal/auth"
	"balance-backend/internal/config"
	"balance-backend/internal/db"
	"balance-backend/internal/httpx"
	"balance-backend/internal/ratelimit"
	"balance-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer database.Close()
	logger.Info("connected to postgres")

	secret := []byte(cfg.JWTSecret)
	authMW := auth.New(secret)
	authH := auth.NewHandler(database, secret, logger)
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow)
	taskH := tasks.NewHandlers(tasks.NewStore(database), logger)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	r.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	r.Handle("/auth/me", authMW.Wrap(http.HandlerFunc(authH.Me))).Methods(http.MethodGet)

	// ----- TASKS -----
	t := r.PathPrefix("/tasks").Subrouter()
	t.Use(authMW.Wrap, httpx.Audit(logger), limiter.Wrap)
	t.HandleFunc("", taskH.List).Methods(http.MethodGet)
	t.HandleFunc("", taskH.Create).Methods(http.MethodPost)
	t.HandleFunc("/analysis", taskH.Analyze).Methods(http.MethodGet)
	t.HandleFunc("/{id}", taskH.Update).Methods(http.MethodPatch)
	t.HandleFunc("/{id}", taskH.Delete).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	handler := c.Handler(ghandlers.CombinedLoggingHandler(os.Stdout, r))

	logger.Info("api server listening", zap.String("addr", cfg.ListenAddr))
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
