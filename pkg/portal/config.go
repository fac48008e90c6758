package portal

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/travigo/driverportal/pkg/feeds"
	"github.com/travigo/driverportal/pkg/links"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "data/feeds.yaml"

// Config is the portal's YAML file: the feed registry at the top level plus link and
// dashboard settings.
type Config struct {
	Registry feeds.Registry `yaml:",inline"`

	Links links.Config `yaml:"links"`

	DashboardKeyword string `yaml:"dashboard_keyword"`
}

func LoadConfig(path string) (*Config, error) {
	log.Debug().Str("path", path).Msg("Loading portal config")

	configYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(configYaml)
}

func ParseConfig(source []byte) (*Config, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(source))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode portal config: %w", err)
	}

	if err := config.Registry.Validate(); err != nil {
		return nil, err
	}

	if config.DashboardKeyword == "" {
		config.DashboardKeyword = DefaultDashboardKeyword
	}

	return &config, nil
}
