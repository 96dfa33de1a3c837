package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/example/go-vops/internal/config"
	"github.com/example/go-vops/internal/server"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

const rootLong = `vops evaluates vector operations on arrays stored in a workspace file.

Operands are workspace variable names or numeric literals. Negative literals
must follow "--" so they are not read as flags:

  vops combine -- z 2 x -1 y`

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "vops",
		Short:         "Norms, inner products and linear combinations of real arrays",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	for _, sub := range newNormCmds() {
		cmd.AddCommand(sub)
	}

	cmd.AddCommand(newInnerCmd())
	cmd.AddCommand(newScaleCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newCombineCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newImportWAVCmd())
	cmd.AddCommand(newExportWAVCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Workspace.Path == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}
