// Package serve implements the command that exposes the analysis over HTTP.
package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vorp/rfm-csv/cmd/root"

	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the RFM analysis as an HTTP API",
	Long: `Serve the RFM analysis as an HTTP API.

Endpoints:
  GET  /health             liveness probe
  GET  /api/v1/segments    segment catalog
  POST /api/v1/analyze     multipart upload of a sales CSV (field "file")
  POST /api/v1/insights    AI recommendations for a list of segment summaries

The server stops gracefully on SIGINT or SIGTERM.

Example:
  rfm-csv serve --address :9090`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&address, "address", "", "Listen address (default from config, :8080)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}

	addr := ListenAddress(address, c.GetConfig().Server.Address)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return c.NewServer().Run(ctx, addr)
}

// ListenAddress returns the flag value when set, the configured address
// otherwise and ":8080" when both are empty.
func ListenAddress(flagValue, configured string) string {
	switch {
	case flagValue != "":
		return flagValue
	case configured != "":
		return configured
	default:
		return ":8080"
	}
}
