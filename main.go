package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vit0-9/vt_scanner_api/config"
	"github.com/vit0-9/vt_scanner_api/pkg/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	v          = viper.New()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "vtscanner",
	Short:         "Cyber Scanner proxies URL and file scans to VirusTotal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and web UI (default)",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML, API key redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(v, configPath); err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(config.Redacted(v))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func initRoot(root *cobra.Command) {
	config.SetDefaults(v)

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "optional YAML config file (e.g. ~/.config/vtscanner/config.yaml)")
	flags.String("host", "", "interface to listen on")
	flags.String("port", "8080", "port to listen on")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "json", "json or text")
	for flag, key := range map[string]string{
		"host":       "host",
		"port":       "port",
		"log-level":  "log_level",
		"log-format": "log_format",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(serveCmd, configCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if configPath != "" {
		watchLogLevel(logger)
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.Start(ctx)
}

// watchLogLevel applies log_level edits of the config file without a restart.
// Every other setting is read once at startup.
func watchLogLevel(logger *slog.Logger) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := logging.ParseLevel(v.GetString("log_level"))
		logging.Level.Set(level)
		logger.Info("config file changed", slog.String("file", e.Name), slog.String("log_level", level.String()))
	})
	v.WatchConfig()
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "WARN: no .env file loaded, using environment variables from system if set.")
	}

	initRoot(rootCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
