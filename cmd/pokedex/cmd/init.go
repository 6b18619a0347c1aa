package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pokedex configuration",
	Long: `Write config.yaml with the default settings to your config directory.

Settings cover:
  - api:     PokeAPI base URL, timeout, user agent and concurrency
  - cache:   response cache location, TTL, or disabling it
  - catalog: page size and how many Pokémon the index holds
  - server:  listen address for 'pokedex serve'
  - log:     level and development output

Any setting can also be overridden with a POKEDEX_ environment variable,
e.g. POKEDEX_API_TIMEOUT=10s.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := config.Path(configDir)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit config.yaml to change the defaults")
	fmt.Fprintln(out, "  2. Run 'pokedex compare pikachu gyarados' to compare two Pokémon")
	fmt.Fprintln(out, "  3. Run 'pokedex' to launch the interactive TUI")
	return nil
}
