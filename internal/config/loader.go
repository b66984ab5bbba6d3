package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration with the following priority (highest wins):
// COVNORM_* environment variables, then .covnorm.yaml in dir, then
// defaults. A missing config file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(".covnorm")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("COVNORM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("coverage_type")
	v.BindEnv("use_report_coverage")
	v.BindEnv("diff_coverage_report_path")
	v.BindEnv("report_path")

	v.SetDefault("coverage_type", "cobertura")
	v.SetDefault("use_report_coverage", false)
	v.SetDefault("diff_coverage_report_path", "")
	v.SetDefault("report_path", "coverage.xml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
