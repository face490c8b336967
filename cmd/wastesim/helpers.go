package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/adapters"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

func setDefaults() {
	viper.SetDefault("simulator.tick", classifier.DefaultTickInterval)
	viper.SetDefault("simulator.step", classifier.DefaultProgressStep)
	viper.SetDefault("simulator.duration", classifier.DefaultDuration)
	viper.SetDefault("upload.max_bytes", upload.DefaultMaxBytes)
}

func newLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	switch format {
	case "console":
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "json":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return config.Build()
}

func loadCatalog() (*classifier.Catalog, error) {
	path := viper.GetString("catalog.path")
	if path == "" {
		return classifier.DefaultCatalog(), nil
	}
	return classifier.LoadCatalogFile(path)
}

func newSimulator() (*classifier.Simulator, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	return classifier.NewSimulator(classifier.Config{
		Catalog:      catalog,
		TickInterval: viper.GetDuration("simulator.tick"),
		ProgressStep: viper.GetInt("simulator.step"),
		Duration:     viper.GetDuration("simulator.duration"),
		Logger:       zap.L().Named("simulator"),
	})
}

func newUploader(sim *classifier.Simulator) (*upload.Uploader, error) {
	return upload.NewUploader(upload.Config{
		Sessions:   adapters.SessionFromConfig(viper.GetString("auth.user")),
		Classifier: sim,
		Notifier:   adapters.NewLogNotifier(zap.L().Named("notify")),
		MaxBytes:   viper.GetInt64("upload.max_bytes"),
		Logger:     zap.L().Named("upload"),
	})
}
