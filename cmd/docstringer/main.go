package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"docstringer/internal/config"
	"docstringer/internal/crawler"
	"docstringer/internal/generate"
	"docstringer/internal/git"
	"docstringer/internal/inserter"
	"docstringer/internal/llm"
	"docstringer/internal/logging"
	"docstringer/internal/reconcile"
	"docstringer/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "docstringer",
		Short: "AI-powered docstring generator for Python projects",
	}
	dbPath     string
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "docstringer.db", "Path to the local run-history database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	runCmd.Flags().StringVar(&flagProvider, "provider", "", "AI provider (gemini or openai)")
	runCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	runCmd.Flags().StringVar(&flagContextFile, "context-file", "", "File with extra project context forwarded to the model")
	runCmd.Flags().StringVar(&flagRawOut, "raw-out", "", "Directory where raw model output is mirrored")
	runCmd.Flags().StringVar(&flagChanged, "changed", "", "Only process files changed since the given git ref")

	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

var (
	flagProvider    string
	flagModel       string
	flagContextFile string
	flagRawOut      string
	flagChanged     string
	flagLimit       int
)

// loadConfig applies CLI flag overrides on top of the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagProvider != "" {
		cfg.AI.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.AI.Model = flagModel
	}
	if flagRawOut != "" {
		cfg.Project.RawOutDir = flagRawOut
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Generate and insert docstrings for every Python file under a directory",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			logging.Default().Fatal("config error", "err", err)
		}
		logging.SetLevel(cfg.Log.Level)
		logger := logging.Default()

		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}
		absRoot, err := filepath.Abs(root)
		if err != nil {
			logger.Fatal("cannot resolve project root", "err", err)
		}

		if cfg.AI.APIKey == "" {
			logger.Fatal("AI API key not configured (set DOCSTRINGER_API_KEY or ai.api_key)")
		}

		var contextText string
		if flagContextFile != "" {
			data, err := os.ReadFile(flagContextFile)
			if err != nil {
				logger.Fatal("cannot read context file", "err", err)
			}
			contextText = string(data)
		}

		ctx := context.Background()

		client, err := llm.NewClient(ctx, llm.Options{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			logger.Fatal("failed to create AI client", "err", err)
		}

		store, err := storage.NewRunStore(dbPath)
		if err != nil {
			logger.Fatal("failed to initialize database", "err", err)
		}
		defer store.Close()

		// Collect the files to process.
		var files []string
		if flagChanged != "" {
			files, err = git.ChangedFiles(absRoot, flagChanged)
			if err != nil {
				logger.Fatal("failed to get git changes", "err", err)
			}
		} else {
			ignored := []string{}
			if cfg.Project.RawOutDir != "" {
				ignored = append(ignored, filepath.Base(cfg.Project.RawOutDir))
			}
			cr := crawler.NewCrawler(ignored...)
			err = cr.ScanProject(absRoot, func(path string) {
				files = append(files, path)
			})
			if err != nil {
				logger.Fatal("scan failed", "err", err)
			}
		}

		if len(files) == 0 {
			fmt.Println("✅ No Python files to process.")
			return
		}

		fmt.Printf("📂 Processing %d Python files under %s\n", len(files), absRoot)

		gen := generate.New(client, cfg.Project.RawOutDir, logger)
		engine := inserter.New(reconcile.New(client), logger)

		startedAt := time.Now()
		var reports []*inserter.Report
		for _, path := range files {
			fmt.Printf("✍️  %s\n", path)

			out, err := gen.DocstringsForFile(ctx, path, absRoot, contextText)
			if err != nil {
				logger.Error("skipping file", "file", path, "err", err)
				continue
			}
			if out == "" {
				continue
			}

			report, err := engine.InsertFile(ctx, path, out)
			if err != nil {
				logger.Error("insertion aborted", "file", path, "err", err)
				if report == nil {
					continue
				}
			}
			fmt.Println(report.Summary())
			reports = append(reports, report)
		}

		totals := inserter.Sum(reports)
		fmt.Printf("\n🎉 Done in %v: %d/%d docstrings inserted across %d files.\n",
			time.Since(startedAt).Round(time.Millisecond), totals.Inserted, totals.CodeDefs, totals.Files)

		runID, err := store.SaveRun(ctx, storage.RunRecord{
			Root:       absRoot,
			Model:      cfg.AI.Model,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
		}, reports)
		if err != nil {
			logger.Warn("could not save run history", "err", err)
			return
		}
		fmt.Printf("💾 Run #%d recorded in %s\n", runID, dbPath)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past runs from the local database",
	Run: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logging.SetLevel(logLevel)
		}
		store, err := storage.NewRunStore(dbPath)
		if err != nil {
			logging.Default().Fatal("failed to open database", "err", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background(), flagLimit)
		if err != nil {
			logging.Default().Fatal("failed to list runs", "err", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		for _, r := range runs {
			fmt.Printf("#%d  %s  model=%s  files=%d  inserted=%d/%d  (not generated: %d, not inserted: %d)\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Model,
				r.Files, r.Inserted, r.CodeDefs, r.NotGenerated, r.NotInserted)
			fmt.Printf("    root: %s\n", r.Root)
		}
	},
}
