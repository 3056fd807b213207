package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/maturity-pathway/backend/internal/config"
	"github.com/maturity-pathway/backend/internal/database"
	"github.com/maturity-pathway/backend/internal/logging"
	"github.com/maturity-pathway/backend/internal/projects"
	"github.com/maturity-pathway/backend/internal/templates"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	templateStore := templates.NewStore(db)
	if cfg.Templates.SyncOnStart {
		syncTemplates(ctx, cfg.Templates.Dir, templateStore, log)
	}

	// Initialize handlers
	templateHandler := templates.NewHandler(templateStore, log)
	projectService := projects.NewService(projects.NewStore(db), templateStore, log)
	projectHandler := projects.NewHandler(projectService, log)

	// Setup router
	r := mux.NewRouter()
	r.Use(logging.RequestLogger(log))
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/assessments", templateHandler.ListAssessments).Methods("GET")
	api.HandleFunc("/assessments/{id}", templateHandler.GetAssessment).Methods("GET")
	projectHandler.Register(api)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

func syncTemplates(ctx context.Context, dir string, store *templates.Store, log *zap.Logger) {
	loaded, err := templates.LoadDir(dir, log)
	if err != nil {
		log.Warn("Assessment templates not loaded", zap.String("dir", dir), zap.Error(err))
		return
	}
	n, err := templates.Sync(ctx, store, loaded, log)
	if err != nil {
		log.Error("Assessment template sync failed", zap.Int("synced", n), zap.Error(err))
		return
	}
	log.Info("Assessment templates synced", zap.Int("count", n))
}
