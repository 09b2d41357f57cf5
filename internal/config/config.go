// Package config loads the assistant's settings from flags, environment
// variables, an optional config file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/justestif/go-mood-music-assistant/internal/spotify"
)

// ErrMissingAPIKey is returned when no language-model API key is configured.
var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY (or openai.api_key)")

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MOOD"

// recommendationCount is fixed by the recommendation prompt.
const recommendationCount = 5

// Supported speech synthesis engines.
const (
	EngineGoogle = "google"
	EngineOpenAI = "openai"
)

// Config is the fully resolved application configuration.
type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	Speech    SpeechConfig
	TTS       TTSConfig
	Recommend RecommendConfig
	Spotify   spotify.Config
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// OpenAIConfig holds language-model API settings.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// SpeechConfig holds speech recognition settings.
type SpeechConfig struct {
	Locale        string
	Model         string
	MaxAudioBytes int64
}

// TTSConfig holds speech synthesis settings.
type TTSConfig struct {
	Engine   string
	Language string
	Voice    string
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	Count        int
	FallbackSize int
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("speech.locale", "it-IT")
	v.SetDefault("speech.model", "whisper-1")
	v.SetDefault("speech.max_audio_bytes", 10<<20)
	v.SetDefault("tts.engine", EngineGoogle)
	v.SetDefault("tts.language", "it")
	v.SetDefault("tts.voice", "alloy")
	v.SetDefault("recommend.count", recommendationCount)
	v.SetDefault("recommend.fallback_size", 3)
	v.SetDefault("spotify.client_id", "")
	v.SetDefault("spotify.client_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindFlags maps command-line flags onto their configuration keys.
// Flags that were never registered are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"server.addr": "addr",
		"log.level":   "log-level",
		"tts.engine":  "tts-engine",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load resolves the configuration. When file is non-empty it is read as a
// YAML, TOML or JSON config file. Returns ErrMissingAPIKey if no API key is set.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known variable names shared with other tools.
	aliases := map[string]string{
		"openai.api_key":        "OPENAI_API_KEY",
		"openai.base_url":       "OPENAI_BASE_URL",
		"spotify.client_id":     "SPOTIFY_ID",
		"spotify.client_secret": "SPOTIFY_SECRET",
	}
	for key, env := range aliases {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(v.GetString("openai.api_key")),
			BaseURL:     v.GetString("openai.base_url"),
			Model:       v.GetString("openai.model"),
			Temperature: float32(v.GetFloat64("openai.temperature")),
		},
		Speech: SpeechConfig{
			Locale:        v.GetString("speech.locale"),
			Model:         v.GetString("speech.model"),
			MaxAudioBytes: v.GetInt64("speech.max_audio_bytes"),
		},
		TTS: TTSConfig{
			Engine:   strings.ToLower(v.GetString("tts.engine")),
			Language: v.GetString("tts.language"),
			Voice:    v.GetString("tts.voice"),
		},
		Recommend: RecommendConfig{
			Count:        v.GetInt("recommend.count"),
			FallbackSize: v.GetInt("recommend.fallback_size"),
		},
		Spotify: spotify.Config{
			ClientID:     v.GetString("spotify.client_id"),
			ClientSecret: v.GetString("spotify.client_secret"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	switch c.TTS.Engine {
	case EngineGoogle, EngineOpenAI:
	default:
		return fmt.Errorf("unknown tts.engine %q (want %s or %s)", c.TTS.Engine, EngineGoogle, EngineOpenAI)
	}
	if c.Recommend.Count != recommendationCount {
		return fmt.Errorf("recommend.count is fixed at %d, got %d", recommendationCount, c.Recommend.Count)
	}
	if c.Recommend.FallbackSize < 1 {
		return fmt.Errorf("recommend.fallback_size must be at least 1, got %d", c.Recommend.FallbackSize)
	}
	if c.Speech.MaxAudioBytes <= 0 {
		return fmt.Errorf("speech.max_audio_bytes must be positive, got %d", c.Speech.MaxAudioBytes)
	}
	return nil
}
