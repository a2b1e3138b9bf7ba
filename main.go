package main

import (
	"errors"
	"fmt"
	"os"

	"yashubustudio/yogapose/internal/app"
	"yashubustudio/yogapose/internal/logging"
	"yashubustudio/yogapose/recommender"
)

const logPaneLines = 300

func main() {
	logs := app.NewLogBuffer(logPaneLines)

	cfg, err := recommender.LoadConfig(recommender.DefaultConfigFile)
	if err != nil {
		fatal(fmt.Errorf("load config: %w", err))
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stdout,
		Tee:    logs,
	})

	ds, err := recommender.LoadDataset(cfg.DatasetPath)
	if err != nil {
		var schemaErr *recommender.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error().Strs("missing", schemaErr.Missing).Str("path", schemaErr.Path).Msg("dataset schema")
		} else {
			logger.Error().Err(err).Str("path", cfg.DatasetPath).Msg("load dataset")
		}
		fatal(err)
	}

	svc, err := recommender.NewService(ds, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("start service")
		fatal(err)
	}

	if err := app.Run(svc, app.Options{
		ConfigPath: recommender.DefaultConfigFile,
		Logs:       logs,
		Logger:     logger,
	}); err != nil {
		logger.Error().Err(err).Msg("ui")
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "yogapose:", err)
	app.ShowFatal(err)
	os.Exit(1)
}
