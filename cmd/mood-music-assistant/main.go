// Command mood-music-assistant runs the voice mood-to-music web application.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justestif/go-mood-music-assistant/internal/assistant"
	"github.com/justestif/go-mood-music-assistant/internal/config"
	"github.com/justestif/go-mood-music-assistant/internal/llm"
	"github.com/justestif/go-mood-music-assistant/internal/logging"
	"github.com/justestif/go-mood-music-assistant/internal/prompt"
	"github.com/justestif/go-mood-music-assistant/internal/speech"
	"github.com/justestif/go-mood-music-assistant/internal/spotify"
	"github.com/justestif/go-mood-music-assistant/internal/web"
	webfs "github.com/justestif/go-mood-music-assistant/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "mood-music-assistant",
		Short:         "Tell it how you feel, get music that fits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	serve.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	serve.Flags().String("tts-engine", "", "speech synthesis engine (google or openai)")

	root.AddCommand(serve)
	return root
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	openaiCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(openaiCfg)

	prompts, err := prompt.Default()
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	opts := llm.Options{Model: cfg.OpenAI.Model, Temperature: cfg.OpenAI.Temperature}
	analyzer := llm.NewAnalyzer(client, prompts, opts, log.WithField("component", "analyzer"))

	recOptions := []llm.Option{llm.WithFallbackSize(cfg.Recommend.FallbackSize)}
	if cfg.Spotify.Enabled() {
		catalog, err := spotify.NewFromConfig(ctx, &cfg.Spotify)
		if err != nil {
			return fmt.Errorf("connecting to spotify: %w", err)
		}
		recOptions = append(recOptions, llm.WithTrackResolver(spotify.NewCachedResolver(catalog)))
		log.Info("Spotify links enabled")
	}
	recommender := llm.NewRecommender(client, prompts, opts, log.WithField("component", "recommender"), recOptions...)

	transcriber := speech.NewWhisperTranscriber(client, cfg.Speech.Model, cfg.Speech.Locale)

	var synthesizer speech.Synthesizer
	switch cfg.TTS.Engine {
	case config.EngineOpenAI:
		synthesizer = speech.NewOpenAISynthesizer(client, cfg.TTS.Voice)
	default:
		synthesizer = speech.NewGoogleSynthesizer(cfg.TTS.Language)
	}

	turns := assistant.New(transcriber, analyzer, recommender, synthesizer, log.WithField("component", "assistant"))

	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:          cfg.Server.Addr,
		TemplatesFS:   templates,
		StaticFS:      static,
		Runner:        turns,
		MaxAudioBytes: cfg.Speech.MaxAudioBytes,
		Logger:        log,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.WithFields(logrus.Fields{
		"model":      cfg.OpenAI.Model,
		"tts_engine": cfg.TTS.Engine,
		"locale":     cfg.Speech.Locale,
	}).Info("Mood music assistant ready")

	return server.Run()
}
