package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/notesmart/notesmart/internal/handlers"
	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/repositories"
	"github.com/notesmart/notesmart/internal/services"
	"github.com/notesmart/notesmart/internal/sessions"
	"github.com/notesmart/notesmart/internal/token"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title notesmart API
// @version 1.0.0
// @description Notes and to-do service with a JSON API mirroring the HTML views
// @host localhost:5000
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, debug, secretKey, sessionExpSecond,
		dbHost, dbPort, dbUser, dbPassword, dbName,
		dbMaxOpenConns, dbMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, debug, secretKey, sessionExpSecond,
		dbHost, dbPort, dbUser, dbPassword, dbName,
		dbMaxOpenConns, dbMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis and session configuration.
func parseConfig(path string) (
	appHost, appPort string, debug bool,
	secretKey string, sessionExpSecond int,
	dbHost string, dbPort int, dbUser, dbPassword, dbName string,
	dbMaxOpenConns, dbMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "0.0.0.0")
	appPort = getEnv("APP_PORT", "5000")
	debug = getEnv("DEBUG", "true") == "true"

	// Session config
	secretKey = getEnv("SECRET_KEY", "development-key-change-in-production")
	if sessionExpSecond, err = strconv.Atoi(getEnv("SESSION_EXP_SECOND", "86400")); err != nil {
		return
	}

	// Database config
	dbHost = getEnv("DB_HOST", "localhost")
	dbUser = getEnv("DB_USER", "notesmart")
	dbPassword = getEnv("DB_PASSWORD", "notesmart")
	dbName = getEnv("DB_NAME", "notesmart")
	if dbPort, err = strconv.Atoi(getEnv("DB_PORT", "5432")); err != nil {
		return
	}
	if dbMaxOpenConns, err = strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if dbMaxIdleConns, err = strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	return
}

// run initializes the logger, database, Redis and HTTP server. It
// sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string, debug bool,
	secretKey string, sessionExpSecond int,
	dbHost string, dbPort int, dbUser, dbPassword, dbName string,
	dbMaxOpenConns, dbMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
) error {
	// Initialize logger
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", dbHost, dbPort, dbName)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Error("PostgreSQL connection error:", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Error("PostgreSQL ping failed:", err)
		return err
	}

	// Create tables and indexes if absent. A failure here is logged
	// but does not abort startup: the schema may already exist and the
	// creating role may lack DDL rights.
	if err := repositories.InitSchema(ctx, db); err != nil {
		logger.Log.Errorw("schema initialization failed, continuing", "error", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Error("Redis connection error:", err)
		return err
	}
	defer rdb.Close()

	// Session plumbing
	sessionExp := time.Duration(sessionExpSecond) * time.Second
	codec := token.New(secretKey, sessionExp)
	sessionStore := sessions.New(rdb, sessionExp)

	// Initialize repositories on the request-scoped connection
	connGetter := repositories.ConnGetter(middlewares.GetConnFromContext)
	userReadRepo := repositories.NewUserReadRepository(db, connGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, connGetter)
	categoryReadRepo := repositories.NewCategoryReadRepository(db, connGetter)
	categoryWriteRepo := repositories.NewCategoryWriteRepository(db, connGetter)
	noteReadRepo := repositories.NewNoteReadRepository(db, connGetter)
	noteWriteRepo := repositories.NewNoteWriteRepository(db, connGetter)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, categoryWriteRepo, sessionStore)
	categoriesService := services.NewCategoriesService(categoryReadRepo, categoryWriteRepo)
	notesService := services.NewNotesService(noteReadRepo, noteWriteRepo, categoriesService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(middlewares.DBConnMiddleware(db))
	r.Use(middlewares.SessionMiddleware(codec, authService))

	// Public view routes
	r.Get("/", handlers.NewIndexHandler())
	registerHandler := handlers.NewRegisterHandler(authService)
	r.Get("/register", registerHandler)
	r.Post("/register", registerHandler)
	loginHandler := handlers.NewLoginHandler(authService, codec)
	r.Get("/login", loginHandler)
	r.Post("/login", loginHandler)
	r.Get("/logout", handlers.NewLogoutHandler(authService, codec))

	// Protected view routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireViewAuth)

		r.Get("/dashboard", handlers.NewDashboardHandler(notesService, categoriesService))
		r.Get("/todos", handlers.NewTodosHandler(notesService, categoriesService))

		noteCreateHandler := handlers.NewNoteCreateViewHandler(notesService, categoriesService)
		r.Get("/note/new", noteCreateHandler)
		r.Post("/note/new", noteCreateHandler)
		r.Get("/note/{id}", handlers.NewNoteViewHandler(notesService))
		noteEditHandler := handlers.NewNoteEditViewHandler(notesService, categoriesService)
		r.Get("/note/{id}/edit", noteEditHandler)
		r.Post("/note/{id}/edit", noteEditHandler)
		r.Post("/note/{id}/delete", handlers.NewNoteDeleteViewHandler(notesService))

		r.Post("/category/new", handlers.NewCategoryCreateViewHandler(categoriesService))
		r.Post("/category/{id}/delete", handlers.NewCategoryDeleteViewHandler(categoriesService))
	})

	// JSON API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
		r.Use(middlewares.RequireAPIAuth)

		r.Get("/notes", handlers.NewListNotesHandler(notesService))
		r.Post("/notes", handlers.NewCreateNoteHandler(notesService))
		r.Get("/notes/{id}", handlers.NewGetNoteHandler(notesService))
		r.Put("/notes/{id}", handlers.NewUpdateNoteHandler(notesService))
		r.Delete("/notes/{id}", handlers.NewDeleteNoteHandler(notesService))

		r.Get("/categories", handlers.NewListCategoriesHandler(categoriesService))
		r.Post("/categories", handlers.NewCreateCategoryHandler(categoriesService))
		r.Delete("/categories/{id}", handlers.NewDeleteCategoryHandler(categoriesService))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
