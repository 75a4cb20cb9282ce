// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"
	"sync"

	"vorp/rfm-csv/internal/config"
	"vorp/rfm-csv/internal/container"
	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Delimiter  string
	DayFirst   bool
	AIEnabled  bool
}

// MappingFlags holds the column names given on the command line.
type MappingFlags struct {
	CustomerID   string
	CustomerName string
	Salesperson  string
	OrderDate    string
	OrderValue   string
}

// ColumnMapping converts the flags into a mapping. Empty fields are later
// detected from the file header.
func (m MappingFlags) ColumnMapping() models.ColumnMapping {
	return models.ColumnMapping{
		CustomerID:   strings.TrimSpace(m.CustomerID),
		CustomerName: strings.TrimSpace(m.CustomerName),
		Salesperson:  strings.TrimSpace(m.Salesperson),
		OrderDate:    strings.TrimSpace(m.OrderDate),
		OrderValue:   strings.TrimSpace(m.OrderValue),
	}
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "rfm-csv",
		Short: "A CLI tool to segment customers with an RFM analysis of sales CSV files.",
		Long: `rfm-csv reads transactional sales records from CSV files and computes an
RFM (Recency, Frequency, Monetary) segmentation per customer.

Customers are scored into population quintiles and assigned to one of eleven
marketing segments. Results can be exported as CSV, rendered as a JSON or
Markdown report, enriched with AI recommendations or served over HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to rfm-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil {
				return
			}
			if err := appContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Mapping holds the column mapping flags of the analysis commands
	Mapping = MappingFlags{}

	appConfig    *config.Config
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory (default: next to the input)")
		flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: $HOME/.rfm-csv/config.yaml)")
		flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
		flags.StringVar(&SharedFlags.Delimiter, "csv-delimiter", "", "CSV delimiter used when the header has no semicolon")
		flags.BoolVar(&SharedFlags.DayFirst, "day-first", false, "Read ambiguous dates like 05/01/2024 as day/month/year")
		flags.BoolVar(&SharedFlags.AIEnabled, "ai-enabled", false, "Enable AI insights (requires GEMINI_API_KEY)")
	})
}

// AddMappingFlags registers the column mapping flags on cmd.
func AddMappingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&Mapping.CustomerID, "customer-id", "", "Column holding the customer id (auto-detected when empty)")
	cmd.Flags().StringVar(&Mapping.CustomerName, "customer-name", "", "Column holding the customer name")
	cmd.Flags().StringVar(&Mapping.Salesperson, "salesperson", "", "Column holding the salesperson")
	cmd.Flags().StringVar(&Mapping.OrderDate, "order-date", "", "Column holding the order date (auto-detected when empty)")
	cmd.Flags().StringVar(&Mapping.OrderValue, "order-value", "", "Column holding the order value (auto-detected when empty)")
}

func setup(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if err := ApplyOverrides(cmd, cfg); err != nil {
		return err
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	appConfig = cfg
	appContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyOverrides copies the flags set on the command line over cfg and
// validates the result.
func ApplyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if flags.Changed("csv-delimiter") {
		cfg.CSV.Delimiter = SharedFlags.Delimiter
	}
	if flags.Changed("day-first") {
		cfg.CSV.DayFirst = SharedFlags.DayFirst
	}
	if flags.Changed("ai-enabled") {
		cfg.AI.Enabled = SharedFlags.AIEnabled
	}
	if flags.Changed("output") {
		cfg.Output.Directory = SharedFlags.Output
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetLogger returns the logger configured for the current command.
func GetLogger() logging.Logger {
	return Log
}

// GetConfig returns the configuration of the current command. It is nil until
// the root pre-run hook ran.
func GetConfig() *config.Config {
	return appConfig
}

// GetContainer returns the dependency container. It is nil until the root
// pre-run hook ran.
func GetContainer() *container.Container {
	return appContainer
}
