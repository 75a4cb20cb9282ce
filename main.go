package main

import (
	"fmt"
	"os"
	"strings"

	"vorp/rfm-csv/cmd/analyze"
	"vorp/rfm-csv/cmd/batch"
	"vorp/rfm-csv/cmd/insights"
	"vorp/rfm-csv/cmd/root"
	"vorp/rfm-csv/cmd/segments"
	"vorp/rfm-csv/cmd/serve"
	"vorp/rfm-csv/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command and its persistent flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(segments.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from RFM_LOG_LEVEL
// or LOG_LEVEL and returns it
func configureLogLevelDirectly() logrus.Level {
	logLevelStr := config.GetEnv("RFM_LOG_LEVEL", os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
