package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vannoppenjarno/automatic-reporting/internal/app"
	"github.com/vannoppenjarno/automatic-reporting/internal/config"
	"github.com/vannoppenjarno/automatic-reporting/internal/logutil"
)

const envPrefix = "INSIGHT"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Terminal client for browsing product reports and asking the assistant about them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	cmd.PersistentFlags().String("api-base", config.DefaultAPIBase, "Backend base URL.")
	cmd.PersistentFlags().String("token", "", "Sign-in token (skips the login prompt).")
	cmd.PersistentFlags().Duration("http-timeout", config.DefaultHTTPTimeout, "Per-request HTTP timeout.")
	cmd.PersistentFlags().String("log-level", "info", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().String("log-file", "", "Log file path (logging is off without one).")

	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api_base", cmd.PersistentFlags().Lookup("api-base"))
	_ = viper.BindPFlag("token", cmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("http_timeout", cmd.PersistentFlags().Lookup("http-timeout"))
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.file", cmd.PersistentFlags().Lookup("log-file"))

	viper.SetDefault("api_base", config.DefaultAPIBase)
	viper.SetDefault("http_timeout", config.DefaultHTTPTimeout)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}

func runTUI() error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	logger, closer, err := logutil.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting", "api_base", cfg.APIBase, "timeout", cfg.HTTPTimeout.Round(time.Second))

	p := tea.NewProgram(app.New(cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
