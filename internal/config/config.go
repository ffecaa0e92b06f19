// Package config loads service configuration from an optional
// config.yaml plus GIG_-prefixed environment variables, with the
// plain provider key names (SETLISTFM_API_KEY and friends) accepted
// as a convenience.
package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Cache     CacheConfig     `koanf:"cache"`
	Providers ProvidersConfig `koanf:"providers"`
	Image     ImageConfig     `koanf:"image"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type ProvidersConfig struct {
	SetlistFM    ProviderConfig `koanf:"setlistfm"`
	Songkick     ProviderConfig `koanf:"songkick"`
	Ticketmaster ProviderConfig `koanf:"ticketmaster"`
	News         ProviderConfig `koanf:"news"`
}

type ProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"` // Custom API endpoint
}

// ImageConfig selects the artist image source: musicbrainz, lastfm,
// spotify, or multi.
type ImageConfig struct {
	Provider            string `koanf:"provider"`
	LastfmAPIKey        string `koanf:"lastfm_api_key"`
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	// Try to load from the yaml file first
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider("GIG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GIG_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 3000)
	}
	if !k.Exists("cache.ttl") {
		k.Set("cache.ttl", time.Hour)
	}
	if !k.Exists("image.provider") {
		k.Set("image.provider", "musicbrainz")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute ${VAR} references in secrets
	cfg.Providers.SetlistFM.APIKey = substituteEnvVars(cfg.Providers.SetlistFM.APIKey)
	cfg.Providers.Songkick.APIKey = substituteEnvVars(cfg.Providers.Songkick.APIKey)
	cfg.Providers.Ticketmaster.APIKey = substituteEnvVars(cfg.Providers.Ticketmaster.APIKey)
	cfg.Providers.News.APIKey = substituteEnvVars(cfg.Providers.News.APIKey)
	cfg.Image.LastfmAPIKey = substituteEnvVars(cfg.Image.LastfmAPIKey)
	cfg.Image.SpotifyClientID = substituteEnvVars(cfg.Image.SpotifyClientID)
	cfg.Image.SpotifyClientSecret = substituteEnvVars(cfg.Image.SpotifyClientSecret)

	// The plain env names win over nothing but lose to explicit config.
	applyEnvFallback(&cfg.Providers.SetlistFM.APIKey, "SETLISTFM_API_KEY")
	applyEnvFallback(&cfg.Providers.Songkick.APIKey, "SONGKICK_API_KEY")
	applyEnvFallback(&cfg.Providers.Ticketmaster.APIKey, "TICKETMASTER_API_KEY")
	applyEnvFallback(&cfg.Providers.News.APIKey, "NEWS_API_KEY")
	applyEnvFallback(&cfg.Image.LastfmAPIKey, "LASTFM_API_KEY")
	applyEnvFallback(&cfg.Image.SpotifyClientID, "SPOTIFY_CLIENT_ID")
	applyEnvFallback(&cfg.Image.SpotifyClientSecret, "SPOTIFY_CLIENT_SECRET")
	if cfg.Image.Provider == "musicbrainz" {
		if v := os.Getenv("IMAGE_PROVIDER"); v != "" {
			cfg.Image.Provider = v
		}
	}

	return &cfg, nil
}

func applyEnvFallback(target *string, name string) {
	if *target == "" {
		*target = os.Getenv(name)
	}
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// MissingKeys lists providers that cannot run for lack of
// credentials. MusicBrainz and Wikipedia never appear: they need
// none.
func (c *Config) MissingKeys() []string {
	var missing []string
	if c.Providers.SetlistFM.APIKey == "" {
		missing = append(missing, "setlistfm")
	}
	if c.Providers.Songkick.APIKey == "" {
		missing = append(missing, "songkick")
	}
	if c.Providers.Ticketmaster.APIKey == "" {
		missing = append(missing, "ticketmaster")
	}
	if c.Providers.News.APIKey == "" {
		missing = append(missing, "news")
	}
	return missing
}
