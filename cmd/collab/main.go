package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/config"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/engine"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/export"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/research"
	"github.com/UserofUser-s/ai-collaborative-answer/web/handlers"
)

var (
	cfgPath   string
	debugFlag bool
	appConfig *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collab",
	Short: "Collaborative AI answer engine",
	Long: `collab orchestrates a fixed-role debate between three AI roles.

An advocate argues for a concrete answer, a critic attacks it, and after the
configured number of rounds a judge synthesizes the exchange into one final
answer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if debugFlag {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.collab/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// run command - run a debate
var (
	providerFlag string
	modelFlag    string
	roundsFlag   int
	retriesFlag  int
	timeoutFlag  time.Duration
	factsFlag    bool
	exportFlag   string
	outputFlag   string
	quietFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Run a debate and print the synthesized answer",
	Long: `Run an advocate/critic/judge debate on the given prompt.

Examples:
  collab run "Is AI beneficial to society?"
  collab run "Should we adopt Kubernetes?" --rounds 2 --provider ollama --model llama3
  collab run "Is nuclear power safe?" --facts --export markdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebate,
}

func init() {
	runCmd.Flags().StringVarP(&providerFlag, "provider", "p", "", "Model provider (default from config)")
	runCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model name (default: provider default)")
	runCmd.Flags().IntVarP(&roundsFlag, "rounds", "r", 0, "Advocate/critic rounds before judging (default from config)")
	runCmd.Flags().IntVar(&retriesFlag, "retries", -1, "Retry budget per model call (default from config)")
	runCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Per-call timeout (default from config)")
	runCmd.Flags().BoolVar(&factsFlag, "facts", false, "Look up Wikipedia facts for the topic")
	runCmd.Flags().StringVar(&exportFlag, "export", "", "Export format (markdown, json, pdf)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Export file path (default: generated name)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print the final answer")
}

func runDebate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	providerName := providerFlag
	if providerName == "" {
		providerName = appConfig.Defaults.Provider
	}
	client, err := appConfig.CreateClient(providerName, modelFlag)
	if err != nil {
		return err
	}
	if !client.Available() {
		return fmt.Errorf("provider %s is not available", providerName)
	}

	engineCfg := engine.Config{
		Rounds:       appConfig.Defaults.Rounds,
		RetryBudget:  appConfig.Defaults.RetryBudget,
		Timeout:      appConfig.Defaults.Timeout.Std(),
		Instructions: appConfig.RoleInstructions(),
	}
	if roundsFlag > 0 {
		engineCfg.Rounds = roundsFlag
	}
	if retriesFlag >= 0 {
		engineCfg.RetryBudget = retriesFlag
	}
	if timeoutFlag > 0 {
		engineCfg.Timeout = timeoutFlag
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if factsFlag || appConfig.Defaults.Facts {
		wiki := research.NewWikiClient()
		if fact, err := wiki.Lookup(ctx, prompt); err == nil {
			engineCfg.Facts = research.FormatFacts(fact)
			if !quietFlag {
				fmt.Printf("Facts: %s (%s)\n\n", fact.Title, fact.URL)
			}
		} else {
			slog.Warn("Fact lookup failed, continuing without facts", "error", err)
		}
	}

	orch, err := engine.New(client, engineCfg)
	if err != nil {
		return err
	}

	var callback engine.TurnCallback
	if !quietFlag {
		fmt.Printf("Debating: %s\n", prompt)
		fmt.Println(strings.Repeat("=", 60))
		callback = func(turn core.Turn) {
			fmt.Printf("\n--- %s (Round %d) ---\n%s\n", turn.Role, turn.Round, turn.Output)
		}
	}

	result, runErr := orch.Run(ctx, prompt, callback)
	if runErr != nil {
		if result != nil && result.Transcript.Len() > 0 {
			fmt.Fprintf(os.Stderr, "debate failed after %d turn(s)\n", result.Transcript.Len())
		}
		return runErr
	}

	if quietFlag {
		fmt.Println(result.FinalAnswer)
	} else {
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("\nFinal answer:\n%s\n", result.FinalAnswer)
	}

	if exportFlag != "" {
		return exportResult(result)
	}
	return nil
}

func exportResult(result *core.Result) error {
	format := export.Format(exportFlag)
	if format == "md" {
		format = export.FormatMarkdown
	}
	exporter, err := export.GetExporter(format)
	if err != nil {
		return err
	}

	path := outputFlag
	if path == "" {
		path = export.GenerateFilename(result, exporter.FileExtension())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := exporter.Export(result, f); err != nil {
		return fmt.Errorf("failed to export debate: %w", err)
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// providers command - list configured providers
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured model providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := appConfig.CreateRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDISPLAY\tAVAILABLE\tMODELS")
		for _, c := range registry.List() {
			available := "no"
			if c.Available() {
				available = "yes"
			}
			models := ""
			if p, ok := appConfig.Providers[c.Name()]; ok {
				models = strings.Join(p.Models, ", ")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name(), c.DisplayName(), available, models)
		}
		return w.Flush()
	},
}

// roles command - show role instructions
var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show the instruction text for each debate role",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst := appConfig.RoleInstructions().WithDefaults()
		for _, r := range core.Roles {
			fmt.Printf("=== %s ===\n%s\n\n", r, inst[r])
		}
		return nil
	},
}

// config command - manage configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultConfigPath())
	},
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example config file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.GenerateExample())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.Default().SaveTo(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configExampleCmd)
	configCmd.AddCommand(configInitCmd)
}

// serve command - run the HTTP API
var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		port := servePort
		if port == 0 {
			port = appConfig.Server.Port
		}

		h := handlers.New(appConfig)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: h.Routes(),
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Server listening", "port", port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		slog.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Server port (default from config)")
}
