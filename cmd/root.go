package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobscout/internal/profile"
)

const (
	app = "jobscout"
)

type Config struct {
	Profile    *profile.Profile `mapstructure:"profile"`
	DataDir    string           `mapstructure:"data-dir"`
	ReportsDir string           `mapstructure:"reports-dir"`
	DotenvFile string           `mapstructure:"dotenv-file"`
	Search     *SearchConfig    `mapstructure:"search"`
	AI         *AIConfig        `mapstructure:"ai"`
}

type SearchConfig struct {
	MaxJobs    int     `mapstructure:"max-jobs"`
	MinScore   float64 `mapstructure:"min-score"`
	TopLetters int     `mapstructure:"top-letters"`
	Letters    bool    `mapstructure:"letters"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a cli that searches job boards, scores postings against your profile and drafts cover letters",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only the run and schedule commands need a config file.
	if runCmd.CalledAs() == "" && scheduleCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config != nil {
		if config.Profile == nil {
			config.Profile = &profile.Profile{}
		}
		config.Profile.Normalize()

		if config.DataDir == "" {
			config.DataDir = "data"
		}
		if config.ReportsDir == "" {
			config.ReportsDir = "reports"
		}
	}

	return config, nil
}
