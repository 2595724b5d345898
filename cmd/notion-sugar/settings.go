package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/diwise/notion-sugar/internal/pkg/application/notifications"
	"github.com/diwise/notion-sugar/internal/pkg/application/sugar"
	"github.com/diwise/notion-sugar/internal/pkg/infrastructure/metrics"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	"github.com/spf13/viper"
)

const (
	DefaultDatabaseName string = "default"

	keyToken            string = "NOTION_TOKEN"
	keyDatabaseID       string = "DATABASE_ID"
	keyConfigPath       string = "NOTION_SUGAR_CONFIG"
	keyNotionVersion    string = "NOTION_VERSION"
	keyBaseURL          string = "NOTION_BASE_URL"
	keyNotifierEndpoint string = "NOTIFIER_ENDPOINT"
	keyServicePort      string = "SERVICE_PORT"
	keyPolicyPath       string = "OPA_POLICY_FILE"
	keyDebug            string = "NOTION_DEBUG"
)

type Settings struct {
	Token            string
	DatabaseID       string
	ConfigPath       string
	NotionVersion    string
	BaseURL          string
	NotifierEndpoint string
	ServicePort      string
	PolicyPath       string
	Debug            bool
}

// LoadSettings reads settings from the environment, falling back to the
// contents of envFile. A missing envFile is not an error.
func LoadSettings(envFile string) (*Settings, error) {
	v := viper.New()
	v.SetDefault(keyServicePort, "8080")
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		err := v.ReadInConfig()
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	s := &Settings{
		Token:            v.GetString(keyToken),
		DatabaseID:       v.GetString(keyDatabaseID),
		ConfigPath:       v.GetString(keyConfigPath),
		NotionVersion:    v.GetString(keyNotionVersion),
		BaseURL:          v.GetString(keyBaseURL),
		NotifierEndpoint: v.GetString(keyNotifierEndpoint),
		ServicePort:      v.GetString(keyServicePort),
		PolicyPath:       v.GetString(keyPolicyPath),
		Debug:            v.GetBool(keyDebug),
	}

	if s.Token == "" {
		return nil, fmt.Errorf("%s is not set", keyToken)
	}

	if s.DatabaseID == "" && s.ConfigPath == "" {
		return nil, fmt.Errorf("either %s or %s must be set", keyDatabaseID, keyConfigPath)
	}

	return s, nil
}

// databases returns the configured databases. DATABASE_ID, when set, is
// registered under the default name with the Name and Priority fields.
func (s *Settings) databases() (*sugar.Config, error) {
	cfg := &sugar.Config{}

	if s.ConfigPath != "" {
		f, err := os.Open(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		cfg, err = sugar.LoadConfiguration(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.ConfigPath, err)
		}
	}

	if s.DatabaseID != "" {
		cfg.Databases = append(cfg.Databases, sugar.DatabaseConfig{
			Name: DefaultDatabaseName,
			ID:   s.DatabaseID,
			Fields: []sugar.FieldConfig{
				{Name: "Name", Type: "title", Required: true},
				{Name: "Priority", Type: "select"},
			},
		})
	}

	return cfg, nil
}

func newApplication(ctx context.Context, s *Settings) (sugar.NotionSugar, *metrics.Metrics, notifications.Notifier, error) {
	c, err := client.New(client.Config{
		BaseURL:       s.BaseURL,
		Token:         s.Token,
		NotionVersion: s.NotionVersion,
		Debug:         s.Debug,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	m := metrics.NewMetrics()

	cfg, err := s.databases()
	if err != nil {
		return nil, nil, nil, err
	}

	options := []sugar.Option{}

	var n notifications.Notifier
	if s.NotifierEndpoint != "" {
		n, err = notifications.NewNotifier(ctx, s.NotifierEndpoint)
		if err != nil {
			return nil, nil, nil, err
		}
		if err = n.Start(); err != nil {
			return nil, nil, nil, err
		}
		options = append(options, sugar.WithNotifier(n))
	}

	a, err := sugar.New(ctx, *cfg, metrics.Instrument(c, m), options...)
	if err != nil {
		return nil, nil, nil, err
	}

	return a, m, n, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
