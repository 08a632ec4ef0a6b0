package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmcdonald/giftkit/internal/config"
	"github.com/jmcdonald/giftkit/internal/tui"
)

// CurateCommand builds the curate command tree.
func (c *CLI) CurateCommand() *cobra.Command {
	var csvPath, label string

	root := c.newRoot("curate",
		"Convert a product sheet into a curatedProducts block",
		`Reads the exported product sheet and prints a curatedProducts array
literal to stdout, ready to paste into a source file. Rows without an image
or affiliate link are skipped; links without an ASIN are reported on stderr
and skipped.`)

	root.PersistentFlags().StringVar(&csvPath, "csv", "", "product sheet (default from config)")
	root.PersistentFlags().StringVar(&label, "label", "", "title prefix for every product (default from config)")

	sheet := func(cmd *cobra.Command) (string, string) {
		path, l := c.cfg.Curate.CSVPath, c.cfg.Curate.Label
		if cmd.Flags().Changed("csv") {
			path = csvPath
		}
		if cmd.Flags().Changed("label") {
			l = label
		}
		return config.ExpandPath(path), l
	}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		path, l := sheet(cmd)
		summary, err := c.catalogSvc().Convert(path, l, c.Out, c.Err)
		c.logger.Debug("converted sheet",
			zap.String("csv", path),
			zap.Int("rows", summary.Rows),
			zap.Int("emitted", summary.Emitted),
			zap.Int("incomplete", summary.Incomplete),
			zap.Int("warned", summary.Warned))
		return err
	}

	preview := &cobra.Command{
		Use:   "preview",
		Short: "Browse the curated products interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, l := sheet(cmd)
			run := c.Preview
			if run == nil {
				run = tui.Run
			}
			return run(c.catalogSvc(), path, l)
		},
	}

	root.AddCommand(preview)
	return root
}
