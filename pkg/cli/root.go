// Package cli wires configuration, logging and the backend client into the
// researchmate command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/config"
	"researchmate/pkg/logging"
	"researchmate/pkg/version"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app is the state shared by every subcommand once configuration is loaded.
type app struct {
	configPath string
	apiURL     string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
	client *agentapi.Client
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// interactive UI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "researchmate",
		Short: "Terminal client for the ResearchMate AI research assistant",
		Long: `ResearchMate lets you upload a research paper (PDF) to a ResearchMate
backend and chat with its agents about it: summaries, insights,
comparisons and Python code.

Run without arguments for the interactive UI, or use the subcommands
for one-shot use in scripts.`,
		Version:           version.Summary(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file path (default is $HOME/.researchmate/config.json)")
	flags.StringVar(&a.apiURL, "api-url", "", "backend base URL, overrides config and "+config.EnvAPIURL)
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newAskCmd(a),
		newUploadCmd(a),
		newPingCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup resolves configuration in increasing priority: config file, .env,
// environment, flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	cfg.ApplyEnv()
	if a.apiURL != "" {
		cfg.APIURL = strings.TrimSpace(a.apiURL)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: file logging disabled: %v\n", err)
	}
	logger.Info("researchmate_start",
		"command", cmd.Name(),
		"version", version.Version,
		"api_url", cfg.APIURL,
		"config", path)

	a.cfg = cfg
	a.logger = logger
	a.client = agentapi.NewClient(cfg)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Summary())
		},
	}
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}
