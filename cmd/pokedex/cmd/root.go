// Package cmd contains all CLI commands for the pokedex tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/config"
	"github.com/f3rmion/pokedex/internal/logging"
)

// annotationTUI marks commands that hand the terminal to the TUI, so
// logs go to a file instead of stderr.
const annotationTUI = "tui"

var (
	cfgFile string

	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pokedex",
	Short: "Look up and compare Pokémon from PokeAPI",
	Long: `pokedex looks up Pokémon from PokeAPI and compares up to four of
them side by side.

A comparison reports:
  - Base stats with bars scaled to the strongest in the group
  - Category leaders for total stats, speed, defense and attack
  - Type matchups where one Pokémon hits another for double damage

Responses are cached in a local SQLite database, so repeated lookups work
offline.

Running 'pokedex' without arguments launches the interactive TUI.`,
	Annotations:       map[string]string{annotationTUI: "true"},
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { logger.Sync() },
	RunE:              runTUI,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/pokedex)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig records the config directory before any command runs.
func initConfig() {
	if cfgFile != "" {
		viper.Set(config.KeyConfigDir, cfgFile)
		return
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
		os.Exit(1)
	}
	viper.Set(config.KeyConfigDir, dir)
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString(config.KeyConfigDir)
}

// setup loads the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if viper.GetBool("verbose") {
		level = "debug"
	}

	if cmd.Annotations[annotationTUI] == "true" {
		logger, err = logging.NewFile(logPath(cfg.Dir), level, cfg.Log.Development)
	} else {
		logger, err = logging.New(level, cfg.Log.Development)
	}
	if err != nil {
		return err
	}

	logger.Debug("config loaded",
		zap.String("dir", cfg.Dir),
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("cache_disabled", cfg.Cache.Disabled))
	return nil
}
