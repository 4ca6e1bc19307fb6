package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/mymeals/internal/config"
	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/mealdb"
	"github.com/pders01/mymeals/internal/tui"
	"github.com/pders01/mymeals/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	baseURL    string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "mymeals",
	Short: "Browse TheMealDB recipes in your terminal",
	Long: `mymeals is a terminal browser for TheMealDB.

Start with a list of meals, search by name as you type, open a recipe
to read its ingredients and instructions, and jump to its photo,
video or source page.`,
	SilenceUsage: true,
	RunE:         runApp,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mymeals %s\n", Version)
		fmt.Println("Recipe browser for TheMealDB")
		fmt.Println("github.com/pders01/mymeals")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		target := configPath
		if target == "" {
			target = config.DefaultConfigPath()
		}
		if err := config.GenerateDefaultConfig(target); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", target)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "TheMealDB API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()

	if !quiet {
		tui.ShowBanner(Version)
	}

	debuglog.WithFields(map[string]interface{}{
		"version":  Version,
		"base_url": cfg.API.BaseURL,
	}).Infof("starting %s", tui.AppName)

	client := mealdb.NewClient(cfg)
	app := tui.NewApp(client, cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path != "" {
		clean, err := validation.NewPermissivePathValidator().ValidateFile(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		path = clean
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if baseURL != "" {
		cfg.API.BaseURL = baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level := debuglog.ParseLogLevel(cfg.Log.Level)
	if level == debuglog.LevelOff {
		return debuglog.Setup(level)
	}

	// an empty path selects the default location
	file := cfg.Log.File
	if file != "" {
		clean, err := validation.NewPathValidator().ValidateFile(file)
		if err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
		file = clean
	}

	rot := debuglog.Rotation{
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	if err := debuglog.SetupWithRotation(level, rot, file); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	return nil
}
