package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/quantmind-br/assetmanifest/internal/app"
	"github.com/quantmind-br/assetmanifest/internal/cache"
	"github.com/quantmind-br/assetmanifest/internal/config"
	"github.com/quantmind-br/assetmanifest/internal/utils"
	"github.com/quantmind-br/assetmanifest/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	osStat = os.Stat
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assetmanifest",
	Short: "Build assets with esbuild and emit asset manifests",
	Long: `AssetManifest bundles a project with esbuild and writes JSON manifests
mapping logical asset names to their emitted, public paths.

Several manifests can be produced per build, each with its own filters,
sorting, seed and generator. HTML pages can be rendered with the tags
for each entrypoint.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var buildCmd = &cobra.Command{
	Use:   "build [entry...]",
	Short: "Build the project and emit its manifests",
	Long: `Runs an esbuild build and emits every configured manifest. Entry points
given as arguments replace build.entry_points from the config. With --watch
the project is rebuilt on change until interrupted.`,
	RunE: runBuild,
}

var showCmd = &cobra.Command{
	Use:   "show <manifest>",
	Short: "Print the last committed manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *cache.Store) error {
			return printHistory(cmd.Context(), cmd.OutOrStdout(), store, args[0], 0, true)
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./assetmanifest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Build flags
	flags := buildCmd.Flags()
	flags.StringP("outdir", "o", config.DefaultOutdir, "Output directory")
	flags.String("public-path", "", "Public path prefixed to emitted files")
	flags.StringP("manifest", "m", config.DefaultManifestFile, "File name of the first manifest")
	flags.String("base-path", "", "Prefix added to the names of the first manifest")
	flags.Bool("write-to-disk", false, "Write manifests through the file writer as they are committed")
	flags.Bool("minify", false, "Minify output")
	flags.Bool("sourcemap", false, "Emit linked source maps")
	flags.BoolP("watch", "w", false, "Rebuild on change")
	flags.Bool("dry-run", false, "Compute manifests without writing files")
	flags.Bool("no-cache", false, "Disable manifest history")

	// Bind flags to viper
	_ = viper.BindPFlag("build.outdir", flags.Lookup("outdir"))
	_ = viper.BindPFlag("build.public_path", flags.Lookup("public-path"))
	_ = viper.BindPFlag("build.minify", flags.Lookup("minify"))
	_ = viper.BindPFlag("build.sourcemap", flags.Lookup("sourcemap"))
	_ = viper.BindPFlag("watch.enabled", flags.Lookup("watch"))

	historyCmd.Flags().IntP("limit", "n", 10, "Max records to list (0=all)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func newLogger(cfg *config.Config) *utils.Logger {
	opts := utils.LoggerOptions{Level: "info", Format: "pretty", Verbose: verbose}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}
	return utils.NewLogger(opts)
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBuildFlags(cmd, cfg, args)
	log = newLogger(cfg)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:  cfg,
		Verbose: verbose,
		DryRun:  dryRun,
		NoCache: noCache,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	return orchestrator.Run(ctx)
}

// applyBuildFlags applies the flags that address the manifest list, which
// viper cannot bind
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Build.EntryPoints = args
	}

	flags := cmd.Flags()
	if flags.Changed("manifest") {
		cfg.Manifests[0].FileName, _ = flags.GetString("manifest")
	}
	if flags.Changed("base-path") {
		cfg.Manifests[0].BasePath, _ = flags.GetString("base-path")
	}
	if flags.Changed("write-to-disk") {
		write, _ := flags.GetBool("write-to-disk")
		for i := range cfg.Manifests {
			cfg.Manifests[i].WriteToFileEmit = write
		}
	}
}

func withStore(fn func(*cache.Store) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := cache.NewStore(cache.Options{
		Directory:  utils.ExpandPath(cfg.Cache.Directory),
		MaxHistory: cfg.Cache.MaxHistory,
		Logger:     newLogger(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to open manifest history: %w", err)
	}
	defer store.Close()

	return fn(store)
}

var historyCmd = &cobra.Command{
	Use:   "history [manifest]",
	Short: "Show recorded manifest history",
	Long: `Lists the manifests recorded by previous builds. With a manifest path,
lists the recorded revisions of that manifest, newest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return withStore(func(store *cache.Store) error {
			return printHistory(cmd.Context(), cmd.OutOrStdout(), store, target, limit, false)
		})
	},
}

func printHistory(ctx context.Context, w io.Writer, store *cache.Store, target string, limit int, show bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if target == "" {
		targets, err := store.Targets(ctx)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(w, "No manifests recorded")
			return nil
		}
		for _, t := range targets {
			fmt.Fprintln(w, t)
		}
		return nil
	}

	target = utils.CanonicalPath(utils.ExpandPath(target))
	if show {
		rec, err := store.Latest(ctx, target)
		if err != nil {
			return fmt.Errorf("%s: %w", target, err)
		}
		_, err = w.Write(append(rec.Content, '\n'))
		return err
	}

	records, err := store.History(ctx, target, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: %w", target, cache.ErrNotFound)
	}
	for _, r := range records {
		fmt.Fprintf(w, "%4d  %s  %s  %d bytes\n",
			r.Seq, r.CommittedAt.Local().Format(time.DateTime), r.Digest[:12], len(r.Content))
	}
	return nil
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project setup",
	Long:  "Verifies that the configuration loads and the build inputs and outputs are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking project setup...")
		allPassed := true

		// Check 1: Config file
		fmt.Fprint(out, "  Config: ")
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			return nil
		}
		fmt.Fprintln(out, "OK")

		// Check 2: Entry points
		fmt.Fprint(out, "  Entry points: ")
		buildOpts, err := app.BuildOptions(cfg.Build)
		if err != nil {
			fmt.Fprintf(out, "FAILED (%v)\n", err)
			allPassed = false
		} else if missing := missingEntries(buildOpts.AbsWorkingDir, buildOpts.EntryPoints); len(missing) > 0 {
			fmt.Fprintf(out, "FAILED (missing %v)\n", missing)
			allPassed = false
		} else {
			fmt.Fprintf(out, "OK (%v)\n", buildOpts.EntryPoints)
		}

		// Check 3: Write permissions for working dir
		fmt.Fprint(out, "  Write permissions: ")
		if checkWritePermissions() {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		// Check 4: History directory
		fmt.Fprint(out, "  History directory: ")
		cacheDir := utils.ExpandPath(cfg.Cache.Directory)
		switch {
		case !cfg.Cache.Enabled:
			fmt.Fprintln(out, "DISABLED")
		case checkCacheDir(cacheDir):
			fmt.Fprintf(out, "OK (%s)\n", cacheDir)
		default:
			fmt.Fprintln(out, "WARN (will be created on first use)")
		}

		fmt.Fprintln(out)
		if allPassed {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

func missingEntries(workingDir string, entries []string) []string {
	var missing []string
	for _, e := range entries {
		path := e
		if !filepath.IsAbs(path) {
			path = filepath.Join(workingDir, e)
		}
		if _, err := osStat(path); err != nil {
			missing = append(missing, e)
		}
	}
	return missing
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".assetmanifest_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkCacheDir checks if the history directory exists
func checkCacheDir(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
