// Package main is the keyfleet admin CLI, a thin wrapper over the client SDK.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keyfleet/keyfleet/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8000"

var (
	apiClient *client.Client
	flagURL   string
	flagToken string
	flagFmt   string
	flagYes   bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("keyfleet version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("keyfleet version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "keyfleet",
		Short:   "Keyfleet CLI — manage private AI keys, teams, and regions",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagToken != "" {
				opts = append(opts, client.WithBearerToken(flagToken))
			}
			c, err := client.New(flagURL, opts...)
			if err != nil {
				fatal("configure client", err)
			}
			apiClient = c
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Keyfleet server URL (env: KEYFLEET_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token (env: KEYFLEET_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation prompts")

	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newRegionCmd())
	rootCmd.AddCommand(newProductCmd())
	rootCmd.AddCommand(newLimitCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newBillingCmd())
	rootCmd.AddCommand(newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("KEYFLEET_URL"); v != "" {
			flagURL = v
		}
	}
	if flagToken == "" {
		flagToken = os.Getenv("KEYFLEET_TOKEN")
	}

	// Try config file for any remaining defaults.
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	cfgPath := filepath.Join(home, ".keyfleet", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	resolvedURL := cfg.URL
	resolvedToken := cfg.Token
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.Token != "" {
				resolvedToken = p.Token
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagToken == "" && resolvedToken != "" {
		flagToken = resolvedToken
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
