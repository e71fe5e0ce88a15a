package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"media-rename/internal/app"
	"media-rename/internal/config"
	"media-rename/internal/journal"
	"media-rename/internal/media"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config, applies flag overrides and creates a MediaApp.
// The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.MediaApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	a, err := app.NewMediaApp(cmd.Context(), cfg, app.Options{Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "mrn [PATH]",
	Short: "Rename photos, videos and audio by capture time",
	Long: `mrn renames a media file, or every media file directly inside a directory,
to PREFIX_YYYYMMDD_HHMMSS_xx.ext. Every rename is recorded in a ledger so
that "mrn --undo" can restore the original names.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")
		if undo {
			return runUndo(cmd)
		}
		if len(args) == 0 {
			return errors.New("missing target path")
		}
		cmd.SilenceUsage = true
		return runRename(cmd, args[0])
	},
}

func runRename(cmd *cobra.Command, target string) error {
	prefix, _ := cmd.Flags().GetString("prefix")
	useExif, _ := cmd.Flags().GetBool("exif")
	export, _ := cmd.Flags().GetBool("mmexport")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := media.Options{
		Prefix:              prefix,
		UseEmbeddedMetadata: useExif,
		DryRun:              dryRun,
	}
	if export {
		opts.Mode = media.ModeExport
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var bar *progressbar.ProgressBar
	if isTerminal(os.Stderr) {
		a.SetProgressFunc(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("renaming"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(done)
		})
	}

	report, err := a.Rename(cmd.Context(), target, opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report *media.BatchReport) {
	for _, res := range report.Results {
		switch res.Status {
		case media.StatusRenamed:
			fmt.Fprintf(w, "renamed    %s -> %s\n", res.Source, filepath.Base(res.Destination))
		case media.StatusPlanned:
			fmt.Fprintf(w, "would move %s -> %s\n", res.Source, filepath.Base(res.Destination))
		case media.StatusSkipped:
			fmt.Fprintf(w, "skipped    %s (%v)\n", res.Source, res.Err)
		case media.StatusFailed:
			fmt.Fprintf(w, "failed     %s: %v\n", res.Source, res.Err)
		}
	}

	fmt.Fprintf(w, "%d renamed, %d planned, %d unchanged, %d skipped, %d failed\n",
		report.Count(media.StatusRenamed),
		report.Count(media.StatusPlanned),
		report.Count(media.StatusUnchanged),
		report.Count(media.StatusSkipped),
		report.Count(media.StatusFailed),
	)
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore original names from the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUndo(cmd)
	},
}

func runUndo(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	pending, err := a.PendingUndo()
	if err != nil {
		return err
	}
	if pending == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to undo in %s\n", a.LedgerPath())
		return nil
	}

	if !yes && isTerminal(os.Stdin) {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Restore %d file(s) recorded in %s?", pending, a.LedgerPath()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	report, err := a.Undo(cmd.Context())
	if report != nil {
		out := cmd.OutOrStdout()
		for _, rec := range report.Missing {
			fmt.Fprintf(out, "missing    %s (kept in ledger)\n", rec.NewPath)
		}
		for _, f := range report.Failed {
			fmt.Fprintf(out, "failed     %s: %v\n", f.Record.NewPath, f.Err)
		}
		fmt.Fprintf(out, "%d restored, %d missing, %d failed\n",
			len(report.Restored), len(report.Missing), len(report.Failed))
	}
	return err
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View rename and undo history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			op := r.Operation
			if r.DryRun {
				op += " (dry)"
			}
			fmt.Fprintf(out, "#%d  %-12s  %s  %-8s  ok:%d unchanged:%d skipped:%d failed:%d  %s  %s\n",
				r.ID,
				op,
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Status,
				r.Counts.Succeeded, r.Counts.Unchanged, r.Counts.Skipped, r.Counts.Failed,
				duration,
				r.Target,
			)

			if r.Counts.Failed == 0 && r.Status != journal.StatusError {
				continue
			}
			failures, err := a.RunFailures(r.ID)
			if err != nil {
				return err
			}
			for _, f := range failures {
				fmt.Fprintf(out, "      %s: %s\n", f.Path, f.Message)
			}
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(cmd.OutOrStdout(), "Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# Configuration from %s\n\n", defaults["config_path"])
		m := &config.Manager{}
		return m.Write(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every level to stderr")

	rootCmd.Flags().StringP("prefix", "p", "", "Prefix to use instead of IMG/VIDEO/AUDIO")
	rootCmd.Flags().BoolP("exif", "e", false, "Prefer the capture time embedded in images")
	rootCmd.Flags().BoolP("mmexport", "m", false, "Take the timestamp from mmexport<millis> file names")
	rootCmd.Flags().BoolP("undo", "u", false, "Restore original names from the ledger")
	rootCmd.Flags().BoolP("dry-run", "n", false, "Show what would be renamed without moving anything")
	rootCmd.Flags().IntP("workers", "w", 0, "Maximum concurrent renames (overrides config; 0 = one per file)")
	rootCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation before undo")

	undoCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(configCmd)
}
