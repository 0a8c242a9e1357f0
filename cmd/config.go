package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/config"
)

var initConfigFlag bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for grind.

Shows the configuration file location, whether it exists, and all current
settings. Configuration values are merged from the config file with
sensible defaults.

By default, grind works without any configuration file. All settings
have defaults:
  - database_path: (empty, uses the user data directory)
  - timezone: Local (system timezone)
  - default_period: today

Examples:

  Display current configuration:
    grind config                     Show all current settings

  Write a commented sample config file:
    grind config --init

Configuration file location:
  ~/.config/grind/config.toml        Linux/macOS
  %APPDATA%\grind\config.toml        Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if initConfigFlag {
			initConfig()
			return
		}
		showConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&initConfigFlag, "init", false, "write a commented sample config file")
}

// showConfig displays the current effective configuration
func showConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return
	}

	fileExists := false
	if _, err := os.Stat(configPath); err == nil {
		fileExists = true
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that your config file is valid TOML format: %s\n", configPath)
		_, _ = fmt.Fprintln(deps.Stderr, "Valid default_period values: today, yesterday, week, last-week, month, last-month, year, last-year")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid timezone examples: Local, America/New_York, Europe/London, Asia/Tokyo")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for grind")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	if cfg.DatabasePath == "" {
		_, _ = fmt.Fprintln(deps.Stdout, "Database Path:   (default)")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Database Path:   %s\n", cfg.DatabasePath)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Timezone:        %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "Default Period:  %s\n", cfg.DefaultPeriod)
	_, _ = fmt.Fprintln(deps.Stdout)

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'grind config --init' to create a commented sample config file.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

// initConfig writes a sample config file unless one already exists
func initConfig() {
	configPath, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if _, err := os.Stat(configPath); err == nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Config file already exists: %s\n", configPath)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Edit the existing file or remove it first")
		deps.Exit(1)
		return
	}

	if err := os.WriteFile(configPath, []byte(config.GenerateSampleConfig()), 0644); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Wrote sample config: %s\n", configPath)
}
