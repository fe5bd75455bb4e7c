package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"aup/pkg/api"
	"aup/pkg/logging"
)

var (
	cfgFile      string
	apiURL       string
	outputFormat string
	logLevel     string
	apiKey       string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aup",
	Short: "CLI for optimizing audio through the Auphonic API",
	Long: `aup uploads audio files to Auphonic for loudness normalization and
noise reduction, waits for processing to finish, downloads the results
into the project directory and keeps the project file index up to date.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "preset config file (default is $HOME/.aup/config.json)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Auphonic API base URL (default "+api.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "json", "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// initConfig reads the .env file and environment variables
func initConfig() {
	// Optional .env in the working directory; real environment wins.
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.BindEnv("auphonic_api_key", "AUPHONIC_API_KEY")
	viper.BindEnv("auphonic_api_url", "AUPHONIC_API_URL")

	apiKey = viper.GetString("auphonic_api_key")

	if apiURL == "" {
		apiURL = viper.GetString("auphonic_api_url")
	}
	if apiURL == "" {
		apiURL = api.DefaultBaseURL
	}
	apiURL = strings.TrimRight(apiURL, "/")
}

// configStorePath returns the preset config file location.
func configStorePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".aup", "config.json"), nil
}

// newAPIClient builds a client, failing before any network call when
// no credential is configured.
func newAPIClient() (*api.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AUPHONIC_API_KEY is not set (environment or .env file)")
	}
	return api.NewClient(apiURL, apiKey), nil
}

func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(logLevel), false)
}
