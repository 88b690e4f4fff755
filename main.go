package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"solar-dgr/internal/audit"
	"solar-dgr/internal/auth"
	customerconfig "solar-dgr/internal/customer/config"
	"solar-dgr/internal/observability/metrics"
	ominputspostgres "solar-dgr/internal/ominputs/infrastructure/postgres"
	ominputshttp "solar-dgr/internal/ominputs/interfaces/http"
	reportapp "solar-dgr/internal/report/application"
	reportpostgres "solar-dgr/internal/report/infrastructure/postgres"
	reportinterfaces "solar-dgr/internal/report/interfaces"
	reporthttp "solar-dgr/internal/report/interfaces/http"
	"solar-dgr/internal/telemetry/infrastructure/mongodb"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	mongoCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	cancel()
	if err != nil {
		logger.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = client.Ping(pingCtx, nil)
	cancel()
	if err != nil {
		logger.Fatalf("mongo ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	registry, err := customerconfig.NewRegistry(cfg.CustomersFile)
	if err != nil {
		logger.Fatalf("customer registry error: %v", err)
	}
	logger.Printf("customer registry loaded: %d customers from %s", len(registry.List()), registry.Path())
	if cfg.WatchCustomers {
		go func() {
			if err := registry.Watch(context.Background(), logger); err != nil {
				logger.Printf("customer registry watch error: %v", err)
			}
		}()
	}

	loader, err := mongodb.NewWindowLoader(client.Database(cfg.MongoDatabase))
	if err != nil {
		logger.Fatalf("window loader error: %v", err)
	}

	draftRepo := reportpostgres.NewDraftRepository(db)
	inputsRepo := ominputspostgres.NewRepository(db)

	service, err := reportapp.NewReportService(registry, loader, draftRepo, reportapp.SystemClock{})
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}

	exporter, err := reportinterfaces.NewWorkbookExporter(cfg.TemplatePath, cfg.ExportDir)
	if err != nil {
		logger.Fatalf("workbook exporter error: %v", err)
	}

	var mailer reporthttp.ReportMailer
	if cfg.SMTPAddr != "" {
		smtpMailer, err := reportinterfaces.NewMailer(cfg.SMTPAddr, cfg.SMTPFrom)
		if err != nil {
			logger.Fatalf("mailer error: %v", err)
		}
		mailer = smtpMailer
	}

	reportHandler, err := reporthttp.NewHandler(service, exporter, inputsRepo, mailer, auditRepo)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}
	customersHandler, err := reporthttp.NewCustomersHandler(service)
	if err != nil {
		logger.Fatalf("customers handler error: %v", err)
	}
	inputsHandler, err := ominputshttp.NewHandler(inputsRepo, auditRepo)
	if err != nil {
		logger.Fatalf("ominputs handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports", reportHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/api/v1/reports/generate", reportHandler)
	mux.Handle("/api/v1/om-inputs", inputsHandler)
	mux.Handle("/api/v1/customers", customersHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	MongoURI       string
	MongoDatabase  string
	DatabaseURL    string
	HTTPAddr       string
	CustomersFile  string
	WatchCustomers bool
	TemplatePath   string
	ExportDir      string
	SMTPAddr       string
	SMTPFrom       string
	JWTSecret      string
}

func loadConfig() config {
	cfg := config{
		MongoURI:       getenvDefault("MONGO_URI", ""),
		MongoDatabase:  getenvDefault("MONGO_DATABASE", "scada_db"),
		DatabaseURL:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		CustomersFile:  getenvDefault("CUSTOMERS_FILE", "customers.yaml"),
		WatchCustomers: getenvBoolDefault("CUSTOMERS_WATCH", true),
		TemplatePath:   getenvDefault("TEMPLATE_PATH", "templates/dgr_template.xlsx"),
		ExportDir:      getenvDefault("EXPORT_DIR", "exports"),
		SMTPAddr:       getenvDefault("SMTP_ADDR", ""),
		SMTPFrom:       getenvDefault("SMTP_FROM", "dgr-reports@localhost"),
		JWTSecret:      getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBoolDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value == "1" || value == "true" || value == "yes"
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
