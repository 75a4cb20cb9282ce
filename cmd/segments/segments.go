// Package segments implements the command that lists the segment catalog.
package segments

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"vorp/rfm-csv/cmd/root"
	"vorp/rfm-csv/internal/store"
	"vorp/rfm-csv/internal/ui"

	"github.com/spf13/cobra"
)

var (
	exportPath string
	asJSON     bool
)

// Cmd represents the segments command
var Cmd = &cobra.Command{
	Use:   "segments",
	Short: "List the customer segments with their labels and colors",
	Long: `List the eleven customer segments in classification order, with the label,
color and description used in reports.

The catalog can be customized with a YAML file (segments.catalog_file). Use
--export to write the current catalog as a starting point.

Example:
  rfm-csv segments --export segments.yaml`,
	RunE: segmentsFunc,
}

func init() {
	Cmd.Flags().StringVar(&exportPath, "export", "", "Write the catalog as YAML to this path")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
}

func segmentsFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	return Run(c.GetStore(), c.GetCatalog(), os.Stdout, exportPath, asJSON)
}

// Run prints catalog to out, as JSON when asJSON is set, and writes it to
// exportPath when one is given.
func Run(s *store.CatalogStore, catalog *store.SegmentCatalog, out io.Writer, exportPath string, asJSON bool) error {
	renderer := ui.NewRenderer(out, catalog)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(catalog.All()); err != nil {
			return fmt.Errorf("error encoding segment catalog: %w", err)
		}
	} else {
		renderer.PrintCatalog()
	}

	if exportPath == "" {
		return nil
	}
	if err := s.SaveCatalog(catalog, exportPath); err != nil {
		return err
	}
	if !asJSON {
		renderer.PrintSuccess("Catalog written to %s", exportPath)
	}
	return nil
}
