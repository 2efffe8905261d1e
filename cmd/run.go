package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobscout/internal/agent"
	"jobscout/internal/letters"
	"jobscout/internal/logger"
	"jobscout/internal/report"
	"jobscout/internal/secrets"
	"jobscout/internal/tracker"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var lettersPrompt = promptui.Select{
	Label: "Generate cover letters and track suggestions?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search, score and report cycle",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before generating letters")
	runCmd.Flags().Int("max-jobs", 0, "cap on the merged job list. Default comes from the config file.")
	runCmd.Flags().Float64("min-score", 0, "minimum match score to keep a job. Default comes from the config file.")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	a, opts := buildAgent(ctx, cmd, config, logger)

	if opts.GenerateLetters && cmd.Flag("auto-aprove").Value.String() == "false" {
		_, answer, err := lettersPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if answer == PromptNo {
			opts.GenerateLetters = false
		}
	}

	result, err := a.Run(ctx, opts)
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}

	if result.Reason != "" {
		logger.Info("exiting", zap.String("reason", result.Reason))
		return
	}

	logger.Info("run summary",
		zap.Int("jobs_found", result.JobsFound),
		zap.Int("scored", result.ScoredCount),
		zap.Int("cover_letters", result.LettersCount),
	)
	if result.ReportPath != "" {
		logger.Info("report", zap.String("path", result.ReportPath))
	}
}

func buildAgent(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (*agent.Agent, agent.Options) {
	creds := secrets.NewEnv(config.DotenvFile, logger)

	var writer *letters.Writer
	if generator := prepareGenerator(ctx, config.AI, logger); generator != nil {
		writer = letters.NewWriter(generator, config.Profile, config.DataDir, logger)
	} else {
		writer = letters.NewWriter(nil, config.Profile, config.DataDir, logger)
	}

	tr := tracker.New(config.DataDir, logger)
	reports := report.NewBuilder(config.ReportsDir, logger)

	opts := agent.DefaultOptions()
	if config.Search != nil {
		if config.Search.MaxJobs > 0 {
			opts.MaxJobs = config.Search.MaxJobs
		}
		if config.Search.MinScore > 0 {
			opts.MinScore = config.Search.MinScore
		}
		if config.Search.TopLetters > 0 {
			opts.TopLetters = config.Search.TopLetters
		}
		opts.GenerateLetters = config.Search.Letters
	}

	if cmd != nil {
		if flag := cmd.Flag("max-jobs"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetInt("max-jobs"); err == nil {
				opts.MaxJobs = v
			}
		}
		if flag := cmd.Flag("min-score"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetFloat64("min-score"); err == nil {
				opts.MinScore = v
			}
		}
	}

	return agent.New(config.Profile, creds, writer, tr, reports, logger), opts
}

// prepareGenerator builds the Gemini letter generator when the ai section is
// enabled. Any problem degrades to the template writer instead of failing
// the run.
func prepareGenerator(ctx context.Context, config *AIConfig, logger *zap.Logger) *letters.Gemini {
	if config == nil || !config.Enabled {
		return nil
	}

	if config.Gemini == nil {
		logger.Warn("ai is enabled but the gemini section is missing, using the template letters")
		return nil
	}

	keyFile := strings.TrimSpace(config.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		logger.Warn("loading gemini api key, using the template letters",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or ai.gemini.api-key-file in the configuration file"),
		)
		return nil
	}

	generator, err := letters.NewGemini(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		logger.Warn("creating gemini generator, using the template letters", zap.Error(err))
		return nil
	}

	return generator
}
