package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/screenscore/internal/config"
	"github.com/dotcommander/screenscore/internal/discovery"
	"github.com/dotcommander/screenscore/internal/format"
)

type fmtOptions struct {
	check bool
	write bool
	diff  bool
}

func newFmtCmd(opts *rootOptions) *cobra.Command {
	fo := &fmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [sheets...]",
		Short: "Rewrite answer sheets in canonical form",
		Long: `Rewrite answer sheets with a canonical layout.

FORMATTING RULES:
  - subject, grade, via, srss and indicators come first, in that order
  - other keys follow alphabetically
  - via and srss answers are sorted by item number
  - two-space indentation; YAML comments are kept

With no arguments every sheet under the root is formatted. Directories are
searched with the configured include and exclude patterns.

EXAMPLES:
  screenscore fmt turma-a/ana.sheet.yaml     # print the formatted sheet
  screenscore fmt -w                         # rewrite every sheet in place
  screenscore fmt --diff turma-a             # show what would change
  screenscore fmt --check                    # exit 1 if any sheet would change`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, opts, fo, args)
		},
	}

	cmd.Flags().BoolVar(&fo.check, "check", false, "Exit 1 if sheets would change (for CI)")
	cmd.Flags().BoolVarP(&fo.write, "write", "w", false, "Write changes in place")
	cmd.Flags().BoolVar(&fo.diff, "diff", false, "Show diff of what would change")
	cmd.MarkFlagsMutuallyExclusive("check", "write", "diff")
	return cmd
}

func runFmt(cmd *cobra.Command, opts *rootOptions, fo *fmtOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	files, err := collectSheets(cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no sheets to format")
	}

	out := cmd.OutOrStdout()
	var changed int
	for _, f := range files {
		needs, err := formatSheet(out, f, fo, cfg.Quiet)
		if err != nil {
			return err
		}
		if needs {
			changed++
		}
	}

	if !cfg.Quiet && len(files) > 1 && (fo.write || fo.check || fo.diff) {
		switch {
		case changed == 0:
			fmt.Fprintf(out, "\nAll %d sheets already formatted\n", len(files))
		case fo.write:
			fmt.Fprintf(out, "\nFormatted %d of %d sheets\n", changed, len(files))
		default:
			fmt.Fprintf(out, "\n%d of %d sheets need formatting\n", changed, len(files))
		}
	}

	if fo.check && changed > 0 {
		return fmt.Errorf("formatting check failed for %s", pluralSheets(changed))
	}
	return nil
}

// formatSheet formats one sheet according to the mode flags and reports
// whether its content changes.
func formatSheet(out io.Writer, f discovery.File, fo *fmtOptions, quiet bool) (bool, error) {
	formatted, err := format.NewSheetFormatter(f.Format).Format(f.Contents)
	if err != nil {
		return false, fmt.Errorf("formatting %s: %w", f.RelPath, err)
	}

	if formatted == f.Contents {
		if !fo.write && !fo.check && !fo.diff {
			fmt.Fprint(out, formatted)
		}
		return false, nil
	}

	switch {
	case fo.check:
		if !quiet {
			fmt.Fprintf(out, "%s needs formatting\n", f.RelPath)
		}
	case fo.diff:
		fmt.Fprint(out, format.Diff(f.Contents, formatted, f.RelPath))
	case fo.write:
		if err := os.WriteFile(f.Path, []byte(formatted), 0644); err != nil {
			return false, fmt.Errorf("error writing %s: %w", f.Path, err)
		}
		if !quiet {
			fmt.Fprintf(out, "Formatted %s\n", f.RelPath)
		}
	default:
		fmt.Fprint(out, formatted)
	}
	return true, nil
}

// collectSheets resolves the arguments to sheets: files are taken as given,
// directories are searched. No arguments searches the root.
func collectSheets(cfg *config.Config, args []string) ([]discovery.File, error) {
	if len(args) == 0 {
		args = []string{cfg.Root}
	}

	var files []discovery.File
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discovery.NewFileDiscovery(arg, cfg.Include, cfg.Exclude, cfg.FollowSymlinks).DiscoverFiles()
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		if _, err := discovery.ValidateFilePath(arg); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		files = append(files, discovery.File{
			Path:     arg,
			RelPath:  arg,
			Size:     info.Size(),
			Format:   discovery.DetectFormat(arg),
			Contents: string(content),
		})
	}
	return files, nil
}

func pluralSheets(n int) string {
	if n == 1 {
		return "1 sheet"
	}
	return fmt.Sprintf("%d sheets", n)
}
