// @title           Cyber Scanner API
// @version         1.0
// @description     Proxies URL and file scans to VirusTotal and summarizes the verdicts as a danger percentage.

// @contact.name   API Support
// @contact.email  info@bentech.app

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vit0-9/vt_scanner_api/config"
	_ "github.com/vit0-9/vt_scanner_api/docs"
	"github.com/vit0-9/vt_scanner_api/handlers"
	"github.com/vit0-9/vt_scanner_api/pkg/scanner"
	"github.com/vit0-9/vt_scanner_api/pkg/virustotal"
	"github.com/vit0-9/vt_scanner_api/web"
)

const (
	shutdownTimeout = 15 * time.Second

	// writeMargin covers writing the response and scheduling slack.
	writeMargin = 10 * time.Second
)

// App encapsulates all the components of the application
type App struct {
	Router        *gin.Engine
	Config        *config.Config
	Logger        *slog.Logger
	ScanHandlers  *handlers.ScanHandlers
	HealthHandler *handlers.HealthHandler
	PageHandlers  *handlers.PageHandlers

	vtClient *virustotal.Client
}

// NewApp creates and initializes a new application instance.
// A missing API key is not fatal: /health reports it and scans answer 500.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	gin.SetMode(cfg.GinMode)

	var (
		vtClient *virustotal.Client
		scans    handlers.Scanner
	)
	if cfg.HasAPIKey() {
		var err error
		vtClient, err = virustotal.NewClient(cfg.APIKey,
			virustotal.WithBaseURL(cfg.VTBaseURL),
			virustotal.WithTimeout(cfg.RequestTimeout),
			virustotal.WithUploadTimeout(cfg.UploadTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("creating VirusTotal client: %w", err)
		}
		scans = scanner.New(vtClient, scanner.Config{
			URLPolicy:  scanner.PollPolicy{MaxWait: cfg.URLScanMaxWait, PollInterval: cfg.URLScanPollInterval},
			FilePolicy: scanner.PollPolicy{MaxWait: cfg.FileScanMaxWait, PollInterval: cfg.FileScanPollInterval},
			Logger:     logger,
		})
	} else {
		logger.Warn("VIRUSTOTAL_API_KEY is not set; scan endpoints will refuse requests")
	}

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestID(), handlers.RequestLogger(logger), handlers.CORS())
	router.MaxMultipartMemory = 8 << 20

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	app := &App{
		Router:        router,
		Config:        cfg,
		Logger:        logger,
		ScanHandlers:  handlers.NewScanHandlers(scans, cfg.MaxUploadBytes, logger),
		HealthHandler: handlers.NewHealthHandler(cfg.HasAPIKey()),
		PageHandlers:  handlers.NewPageHandlers(),
		vtClient:      vtClient,
	}

	if err := app.setupRoutes(); err != nil {
		return nil, err
	}
	return app, nil
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() error {
	app.Router.GET("/health", app.HealthHandler.HealthCheckHandler)

	app.Router.POST("/scan", app.ScanHandlers.ScanURLHandler)
	app.Router.POST("/scan_file", app.ScanHandlers.ScanFileHandler)

	pages := app.PageHandlers
	app.Router.GET("/", pages.Page("index.html", "Scanner"))
	app.Router.GET("/about", pages.Page("about.html", "About"))
	app.Router.GET("/contact", pages.Page("contact.html", "Contact"))
	app.Router.GET("/news", pages.Page("news.html", "News"))

	static, err := web.Static()
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}
	app.Router.StaticFS("/static", http.FS(static))

	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	return nil
}

// HTTPServer builds the server. ReadTimeout bounds reading a client upload.
func (app *App) HTTPServer() *http.Server {
	cfg := app.Config
	return &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.UploadTimeout,
		WriteTimeout:      scanWriteTimeout(cfg),
		IdleTimeout:       2 * time.Minute,
	}
}

// scanWriteTimeout is the longest a file scan can keep a response open.
// The write deadline starts once headers are read, so it spans reading the
// body, the VirusTotal upload and the polling window. Polls that start before
// the deadline run inside MaxWait; only the last sleep and the poll after it
// can overrun, by at most PollInterval + RequestTimeout.
func scanWriteTimeout(cfg *config.Config) time.Duration {
	clientBody := cfg.UploadTimeout
	upstreamUpload := cfg.UploadTimeout
	lastPoll := cfg.FileScanPollInterval + cfg.RequestTimeout
	return clientBody + upstreamUpload + cfg.FileScanMaxWait + lastPoll + writeMargin
}

// Start runs the HTTP server until ctx is canceled, then drains in-flight scans.
func (app *App) Start(ctx context.Context) error {
	srv := app.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("API server starting", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the upstream client.
func (app *App) Close() {
	if app.vtClient != nil {
		_ = app.vtClient.Close()
	}
}
