package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-tangra/go-tangra-sysreport/internal/collector"
	"github.com/go-tangra/go-tangra-sysreport/internal/config"
	"github.com/go-tangra/go-tangra-sysreport/internal/logging"
	"github.com/go-tangra/go-tangra-sysreport/internal/preflight"
	"github.com/go-tangra/go-tangra-sysreport/internal/qr"
	"github.com/go-tangra/go-tangra-sysreport/internal/render"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var cfgFile string

var (
	jsonOutput bool
	outputFile string
	qrDir      string
	noQR       bool
)

var rootCmd = &cobra.Command{
	Use:   "sysreport",
	Short: "SysReport - show this machine's support details and app QR codes",
	Long: `SysReport collects the local machine's name, store and domain, network
address, hardware identifiers, OS build, last reboot, role tag and latest
cumulative update, and prints them alongside QR codes for the mobile app.

Run without a subcommand to show the report (equivalent to 'show').`,
	SilenceUsage: true,
	RunE:         runShow,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Collect and print the system report",
	RunE:  runShow,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the report's data sources and assets are available",
	RunE:  runCheck,
}

var qrOutDir string

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Write the app-store QR codes as PNG files",
	RunE:  runQR,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sysreport %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

var eventLogCmd = &cobra.Command{
	Use:   "eventlog",
	Short: "Manage the Windows Event Log source",
}

var eventLogInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the event log source (requires administrator rights)",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := logging.InstallEventSource(logging.EventSource); err != nil {
			return err
		}
		log.Printf("Event log source %s installed successfully", logging.EventSource)
		return nil
	},
}

var eventLogUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the event log source",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := logging.RemoveEventSource(logging.EventSource); err != nil {
			return err
		}
		log.Printf("Event log source %s uninstalled successfully", logging.EventSource)
		return nil
	},
}

func addShowFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&qrDir, "qr-dir", "", "also write the QR codes as PNG files into this directory")
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "do not print QR codes")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sysreport.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().String("size-format", "", "disk and memory format: rounded or decimal (default rounded)")

	addShowFlags(rootCmd)
	addShowFlags(showCmd)
	qrCmd.Flags().StringVar(&qrOutDir, "out", ".", "directory to write the PNG files into")

	eventLogCmd.AddCommand(eventLogInstallCmd)
	eventLogCmd.AddCommand(eventLogUninstallCmd)

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(eventLogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies CLI overrides and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("size-format"); v != "" {
		cfg.SizeFormat = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		EventLog: cfg.Log.EventLog,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func startupChecks(cfg *config.Config) []preflight.Check {
	return []preflight.Check{
		preflight.Platform(),
		preflight.Probe("management interface", true, collector.Ping),
		preflight.FileReadable("android badge", cfg.Assets.AndroidBadge),
		preflight.FileReadable("ios badge", cfg.Assets.IOSBadge),
		preflight.FileReadable("icon", cfg.Assets.Icon),
	}
}

func qrCodes(cfg *config.Config) []render.Code {
	return []render.Code{
		{Label: "Android (Google Play)", URL: cfg.QR.AndroidURL},
		{Label: "iOS (App Store)", URL: cfg.QR.IOSURL},
	}
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Failed checks are logged; the report renders with whatever is available.
	preflight.Run(ctx, logger, startupChecks(cfg)...)

	c := collector.New(collector.DefaultSources(), cfg.CollectorOptions(), logger)
	report, err := c.Collect(ctx)
	if err != nil {
		logger.Debug("Report field errors", zap.Error(err))
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if jsonOutput {
		if err := render.JSON(w, report); err != nil {
			return err
		}
	} else {
		if err := render.Text(w, report); err != nil {
			return err
		}
		if !noQR {
			fmt.Fprintln(w)
			if err := render.QRCodes(w, qrCodes(cfg)); err != nil {
				logger.Warn("QR code omitted", zap.Error(err))
			}
		}
	}

	if qrDir != "" {
		writeQRFiles(logger, cfg, qrDir)
	}
	if outputFile != "" {
		logger.Info("Report written", zap.String("path", outputFile))
	}
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	res := preflight.Run(cmd.Context(), logger, startupChecks(cfg)...)
	for _, c := range res.Checks {
		switch {
		case c.OK():
			fmt.Printf("[ OK ] %s\n", c.Name)
		case c.Required:
			fmt.Printf("[FAIL] %s: %v\n", c.Name, c.Err)
		default:
			fmt.Printf("[WARN] %s: %v\n", c.Name, c.Err)
		}
	}
	if !res.OK {
		return fmt.Errorf("%d required check(s) failed", countRequired(res.Failed()))
	}
	return nil
}

func countRequired(results []preflight.CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Required {
			n++
		}
	}
	return n
}

func runQR(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if n := writeQRFiles(logger, cfg, qrOutDir); n == 0 {
		return fmt.Errorf("no QR codes written to %s", qrOutDir)
	}
	return nil
}

// writeQRFiles writes one PNG per app store and returns how many succeeded.
func writeQRFiles(logger *zap.Logger, cfg *config.Config, dir string) int {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("Cannot create QR directory", zap.String("dir", dir), zap.Error(err))
		return 0
	}

	files := []struct {
		name string
		url  string
	}{
		{"android_qr.png", cfg.QR.AndroidURL},
		{"ios_qr.png", cfg.QR.IOSURL},
	}
	written := 0
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := qr.WriteFile(path, f.url, cfg.QR.Size); err != nil {
			logger.Warn("QR code omitted", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("QR code written", zap.String("path", path))
		written++
	}
	return written
}
