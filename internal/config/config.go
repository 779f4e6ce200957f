// Package config loads slateplan configuration from an optional YAML
// file and SLATEPLAN_* environment variables. Everything below this
// layer receives explicit values; nothing reads ambient state.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/slateplan/slateplan/pkg/types"
)

const (
	envPrefix      = "SLATEPLAN"
	configFileName = "slateplan"
	configFileType = "yaml"

	cfgKeyToken   = "github.token"
	cfgKeyOwner   = "github.owner"
	cfgKeyRepo    = "github.repo"
	cfgKeyPath    = "github.path"
	cfgKeyBranch  = "github.branch"
	cfgKeyBaseURL = "github.base_url"
	cfgKeyListen  = "listen_addr"

	defaultStorePath = "content/events.json"
	defaultListen    = ":8080"
)

// Config is everything the process needs, resolved once at startup.
type Config struct {
	Store      types.StoreConfig
	ListenAddr string
}

// Load reads slateplan.yaml from dir (the working directory when dir
// is empty) and overlays SLATEPLAN_* environment variables, e.g.
// SLATEPLAN_GITHUB_TOKEN. A missing config file is not an error;
// incomplete store coordinates are.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(cfgKeyPath, defaultStorePath)
	v.SetDefault(cfgKeyListen, defaultListen)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Store: types.StoreConfig{
			Token:   v.GetString(cfgKeyToken),
			Owner:   v.GetString(cfgKeyOwner),
			Repo:    v.GetString(cfgKeyRepo),
			Path:    v.GetString(cfgKeyPath),
			Branch:  v.GetString(cfgKeyBranch),
			BaseURL: v.GetString(cfgKeyBaseURL),
		},
		ListenAddr: v.GetString(cfgKeyListen),
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
