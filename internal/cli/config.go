package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var initForce bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the conceptmap configuration",
	Long: `Settings are resolved in this order, first match wins:
  1. command flags (--max-nodes, --min-frequency, ...)
  2. CONCEPTMAP_* environment variables, e.g. CONCEPTMAP_PRUNING_MAX_NODES=200
  3. ~/.conceptmap/config.yaml (or --config)
  4. built-in defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ~/.conceptmap/config.yaml",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(os.Stderr, "# from %s\n", used)
	} else {
		fmt.Fprintf(os.Stderr, "# no config file, defaults and environment only\n")
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(out))

	// Show problems without failing, so a broken file can still be inspected
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "\n⚠️  %v\n", err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := defaultConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	data, err := defaultConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("✓ Wrote %s\n", path)
	fmt.Printf("  Review it with: conceptmap config show\n")
	return nil
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".conceptmap", "config.yaml"), nil
}

// defaultConfigFile renders the defaults with a short header.
// The API key is never written; it belongs in the environment.
func defaultConfigFile() ([]byte, error) {
	body, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# conceptmap configuration\n")
	buf.WriteString("# Flags and CONCEPTMAP_* environment variables override these values.\n")
	buf.WriteString("# For the openai provider set OPENAI_API_KEY in the environment.\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
