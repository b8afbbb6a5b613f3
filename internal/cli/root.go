package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conceptmap",
	Short: "Conceptmap - concept co-occurrence graphs from transcripts",
	Long: `Conceptmap turns a folder of video transcripts into a weighted concept
co-occurrence graph, then prunes it to a size a person can actually read.

Concepts are noun phrases. Two concepts are connected when they appear in
the same sentence; the edge weight counts how many sentences they share.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("conceptmap v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.conceptmap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".conceptmap"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CONCEPTMAP_PRUNING_MAX_NODES overrides pruning.max_nodes, and so on
	viper.SetEnvPrefix("CONCEPTMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env vars and Unmarshal see them
func setDefaults(cfg *model.Config) {
	viper.SetDefault("pruning.min_frequency", cfg.Pruning.MinFrequency)
	viper.SetDefault("pruning.max_nodes", cfg.Pruning.MaxNodes)
	viper.SetDefault("pruning.max_degree", cfg.Pruning.MaxDegree)
	viper.SetDefault("pruning.size_scale", cfg.Pruning.SizeScale)
	viper.SetDefault("pruning.edge_width", cfg.Pruning.EdgeWidth)

	viper.SetDefault("extract.provider", cfg.Extract.Provider)
	viper.SetDefault("extract.model", cfg.Extract.Model)
	viper.SetDefault("extract.api_key", cfg.Extract.APIKey)
	viper.SetDefault("extract.base_url", cfg.Extract.BaseURL)
	viper.SetDefault("extract.min_concept_length", cfg.Extract.MinConceptLength)
	viper.SetDefault("extract.max_files", cfg.Extract.MaxFiles)
	viper.SetDefault("extract.requests_per_second", cfg.Extract.RequestsPerSecond)
	viper.SetDefault("extract.burst_size", cfg.Extract.BurstSize)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("output.dir", cfg.Output.Dir)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves the layered configuration.
// Command flags are bound to viper keys, so they win over everything else.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Extract.Provider == "openai" && cfg.Extract.APIKey == "" {
		cfg.Extract.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// newLogger builds the run logger: human-readable when verbose, JSON otherwise
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
