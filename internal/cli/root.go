package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	wildcat "github.com/rossb34/wildcat-ws"
	"github.com/rossb34/wildcat-ws/pkg/core"
	"github.com/rossb34/wildcat-ws/pkg/recipe"
)

var (
	cfgFile    string
	recipeFile string
	cachePath  string
	debug      bool
	config     *core.Config
	logger     *charmlog.Logger

	// overrides layers WILDCAT_* environment variables under the global flags
	overrides = viper.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wildcat",
	Short: "Header-only package tooling",
	Long: `wildcat - header-only package tooling

Exports the headers a recipe declares, computes a package id that does not
depend on compiler or build settings, and publishes packages into a local cache.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command with ctx available to every command
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wildcat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&recipeFile, "recipe", "", "recipe file (default is <src>/"+recipe.DefaultFile+", then the built-in wildcat-ws recipe)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "package cache directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("compression", "", "artifact compression: xz, zstd or none")

	overrides.SetEnvPrefix("WILDCAT")
	overrides.AutomaticEnv()
	_ = overrides.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = overrides.BindPFlag("compression", rootCmd.PersistentFlags().Lookup("compression"))

	// Add commands
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(idCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{Prefix: "wildcat"})

	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		logger.Warn("Error loading config, using defaults", "err", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if cachePath != "" {
		config.CachePath = cachePath
		config.WorkPath = filepath.Join(cachePath, "work")
	}
	if overrides.GetBool("debug") {
		config.Debug = true
	}
	if c := overrides.GetString("compression"); c != "" {
		config.Compression = c
	}

	if config.Debug {
		logger.SetLevel(charmlog.DebugLevel)
		config.Logger = logger.StandardLog(charmlog.StandardLogOptions{ForceLevel: charmlog.DebugLevel})
	}
}

// sourceDir returns the first positional argument or the working directory
func sourceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// loadRecipe resolves --recipe, then <src>/wildcat.yaml, then the built-in recipe
func loadRecipe(src string) (*recipe.Metadata, error) {
	if recipeFile != "" {
		return recipe.Load(recipeFile)
	}

	r, err := recipe.Load(src)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("No recipe file found, using built-in recipe", "dir", src)
		return recipe.Default(), nil
	}
	return nil, err
}

func newPackager(src string) (*wildcat.Packager, error) {
	r, err := loadRecipe(src)
	if err != nil {
		return nil, fmt.Errorf("loading recipe: %w", err)
	}
	return wildcat.NewPackager(r, config)
}
