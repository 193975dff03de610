package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(buildApp).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(build depsBuilder) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "agentdir",
		Short:        "Directorio de agentes de seguros: API, revisión de solicitudes e importación",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_FILE or config.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, build)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import agents from a .csv or .json file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			res, err := runImport(cmd.Context(), cfg, logger, args[0], build)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	})

	root.SetContext(context.Background())
	return root
}

func setup(configPath string) (AppConfig, *logrus.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return AppConfig{}, nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return AppConfig{}, nil, err
	}
	return cfg, logger, nil
}

// newLogger 按配置创建 logrus 实例，format 支持 text 与 json。
func newLogger(cfg LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}
