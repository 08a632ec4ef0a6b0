package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmcdonald/giftkit/internal/themezip"
)

// ThemezipCommand builds the themezip command tree.
func (c *CLI) ThemezipCommand() *cobra.Command {
	var (
		source   string
		output   string
		manifest bool
		diff     bool
	)

	root := c.newRoot("themezip",
		"Package the theme directory into a zip archive",
		`Packages the WordPress theme directory into a deflate-compressed zip with
paths relative to the theme root. Dependency folders (node_modules) are
never descended into. Any existing archive at the output path is replaced.`)

	root.PersistentFlags().StringVar(&source, "source", "", "theme directory (default from config)")
	root.PersistentFlags().StringVar(&output, "output", "", "archive path (default from config)")
	root.Flags().BoolVar(&manifest, "manifest", false, "write <output>.manifest.json after the build")

	options := func(cmd *cobra.Command) themezip.Options {
		opts := themezip.OptionsFrom(c.cfg)
		if cmd.Flags().Changed("source") {
			opts.SourceDir = source
		}
		if cmd.Flags().Changed("output") {
			opts.Output = output
		}
		if cmd.Flags().Changed("manifest") {
			opts.Manifest = manifest
		}
		return opts
	}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return c.runBuild(options(cmd))
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check that the archive matches the theme directory",
		Long: `Walks the theme directory with the same exclusion rules as the build and
compares it with the archive by size and CRC32. Exits 1 when anything differs.

Statuses:
  A  in the theme directory, missing from the archive
  M  content differs
  D  in the archive, no longer in the theme directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(options(cmd), diff)
		},
	}
	verify.Flags().BoolVar(&diff, "diff", false, "show a line diff for each modified text file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the files stored in the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(options(cmd))
		},
	}

	root.AddCommand(verify, list)
	return root
}

func (c *CLI) runBuild(opts themezip.Options) error {
	fmt.Fprintf(c.Out, "Creating %s from %s...\n", opts.Output, opts.SourceDir)

	if _, err := c.themeSvc().Build(opts); err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "Done.")
	return nil
}

func (c *CLI) runVerify(opts themezip.Options, withDiff bool) error {
	report, err := c.themeSvc().Verify(opts, withDiff)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "%s Verifying %s against %s\n", c.cyan("=>"), report.Archive, report.Source)

	if len(report.Changes) > 0 {
		fmt.Fprintln(c.Out)
	}
	for _, ch := range report.Changes {
		fmt.Fprintf(c.Out, "  %s %s\n", c.statusBadge(ch.Status), ch.Path)
	}

	if m := report.Manifest; m != nil {
		fmt.Fprintln(c.Out)
		if m.OK() {
			fmt.Fprintf(c.Out, "  %s checksum matches %s\n", c.green("*"), m.Path)
		} else {
			fmt.Fprintf(c.Out, "  %s checksum mismatch: expected %s, got %s\n", c.red("x"), m.Expected, m.Actual)
		}
	}

	for _, d := range report.Diffs {
		c.printFileDiff(d)
	}

	if err := report.Err(); err != nil {
		fmt.Fprintln(c.Out)
		fmt.Fprintf(c.Out, "%s added, %s modified, %s deleted\n",
			c.green(fmt.Sprintf("%d", report.Added)),
			c.yellow(fmt.Sprintf("%d", report.Modified)),
			c.red(fmt.Sprintf("%d", report.Deleted)))
		return err
	}

	fmt.Fprintf(c.Out, "%s Archive is up to date (%d files)\n", c.green("*"), report.Entries)
	return nil
}

func (c *CLI) statusBadge(status rune) string {
	s := string(status)
	switch status {
	case themezip.Added:
		return c.green(s)
	case themezip.Modified:
		return c.yellow(s)
	case themezip.Deleted:
		return c.red(s)
	}
	return s
}

func (c *CLI) printFileDiff(d themezip.FileDiff) {
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "%s %s\n", c.cyan("---"), d.Path)

	switch {
	case d.Error != "":
		fmt.Fprintf(c.Out, "  %s\n", c.red(d.Error))
		return
	case d.IsBinary:
		fmt.Fprintf(c.Out, "  %s\n", c.gray("(binary file differs)"))
		return
	}

	for _, line := range d.Lines {
		text := fmt.Sprintf("%c %s", line.Type, line.Content)
		switch line.Type {
		case '+':
			text = c.green(text)
		case '-':
			text = c.red(text)
		default:
			text = c.gray(text)
		}
		fmt.Fprintln(c.Out, text)
	}
}

func (c *CLI) runList(opts themezip.Options) error {
	entries, err := c.themeSvc().List(opts)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(c.Out, "No files in %s\n", opts.Output)
		return nil
	}

	fmt.Fprintf(c.Out, "Files in %s:\n\n", c.cyan(opts.Output))
	fmt.Fprintf(c.Out, "  %-50s %10s\n", "PATH", "SIZE")
	fmt.Fprintf(c.Out, "  %-50s %10s\n", "----", "----")

	var total int64
	for _, e := range entries {
		fmt.Fprintf(c.Out, "  %-50s %10s\n", e.Name, themezip.FormatSize(e.Size))
		total += e.Size
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "%d files, %s uncompressed\n", len(entries), c.yellow(themezip.FormatSize(total)))
	return nil
}
