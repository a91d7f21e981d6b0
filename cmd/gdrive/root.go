package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/apinprastya/gdrive"
	"github.com/apinprastya/gdrive/internal/config"
	"github.com/apinprastya/gdrive/internal/shell"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagConfigPath  string
	flagCredentials string
	flagToken       string
	flagVerbose     bool
	flagNoColor     bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gdrive",
		Short:         "Google Drive file tool",
		Long:          "List, download, upload and delete Google Drive files. Without a subcommand an interactive menu starts.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.transfer, a.catalog, shell.Options{
				Color:       useColor(),
				DownloadDir: a.cfg.DownloadDir,
			})
			return sh.Run(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "OAuth client secret file")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "token file")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newRmCmd())

	return cmd
}

type app struct {
	cfg      *config.Config
	transfer *gdrive.Transfer
	catalog  *gdrive.Catalog
}

// newApp loads the configuration, makes sure a credential exists and builds
// the drive client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store := gdrive.NewCredentialStore(cfg.TokenFile, cfg.CredentialsFile)
	store.Prompt = cmd.ErrOrStderr()
	ts, err := store.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	client, err := gdrive.New(ctx, ts)
	if err != nil {
		return nil, &gdrive.APIError{Op: "init", Err: err}
	}

	catalog := gdrive.NewCatalog(client, cfg.PageSize)
	transfer := gdrive.NewTransfer(client, catalog, &gdrive.TransferConfig{
		ChunkSize: cfg.ChunkSize,
		Progress:  gdrive.NewConsoleProgress(cmd.OutOrStdout()),
	})
	return &app{cfg: cfg, transfer: transfer, catalog: catalog}, nil
}

// loadConfig applies the command-line flags on top of file and environment values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}
	if flagCredentials != "" {
		cfg.CredentialsFile = flagCredentials
	}
	if flagToken != "" {
		cfg.TokenFile = flagToken
	}
	if flagVerbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: !useColor()})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func useColor() bool {
	if flagNoColor {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
