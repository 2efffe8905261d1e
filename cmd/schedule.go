package cmd

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobscout/internal/logger"
)

// Default: every day at 11:00 in the configured timezone.
const defaultCronSpec = "0 11 * * *"

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the search cycle on a daily cron schedule",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().String("cron", "", "cron expression overriding the default daily schedule")

	viper.BindPFlag("cron", scheduleCmd.Flags().Lookup("cron"))
}

func schedule(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	spec := viper.GetString("cron")
	if spec == "" {
		spec = defaultCronSpec
	}

	a, opts := buildAgent(ctx, nil, config, logger)

	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		logger.Info("scheduled run starting")

		result, err := a.Run(ctx, opts)
		if err != nil {
			logger.Error("scheduled run failed", zap.Error(err))
			return
		}

		if result.Reason != "" {
			logger.Warn("scheduled run skipped", zap.String("reason", result.Reason))
			return
		}

		logger.Info("scheduled run complete",
			zap.Int("jobs_found", result.JobsFound),
			zap.Int("scored", result.ScoredCount),
			zap.Int("cover_letters", result.LettersCount),
			zap.String("report", result.ReportPath),
		)
	})
	if err != nil {
		logger.Fatal("invalid cron expression", zap.String("cron", spec), zap.Error(err))
	}

	logger.Info("scheduler started", zap.String("cron", spec))
	c.Run()
}
