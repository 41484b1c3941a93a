// Package config handles loading and validating the visioncaster configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the visioncaster daemon.
type Config struct {
	Hardware HardwareConfig `mapstructure:"hardware"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Caption  CaptionConfig  `mapstructure:"caption"`
	TTS      TTSConfig      `mapstructure:"tts"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HardwareConfig holds the button and LCD wiring.
type HardwareConfig struct {
	// ButtonPin is the periph.io name of the GPIO line the button is wired
	// to. The line is pull-up biased and active-low.
	ButtonPin string `mapstructure:"button_pin"`

	// ShortPress is the maximum held duration that still counts as a
	// qualifying press. Longer holds are discarded without feedback.
	ShortPress time.Duration `mapstructure:"short_press"`

	// Debounce is the fixed inter-sample delay of the button poll loop.
	Debounce time.Duration `mapstructure:"debounce"`

	LCD LCDConfig `mapstructure:"lcd"`
}

// LCDConfig configures the character display.
type LCDConfig struct {
	Backend string `mapstructure:"backend"` // "hd44780" or "console"
	Columns int    `mapstructure:"columns"`
	Rows    int    `mapstructure:"rows"`

	// 4-bit parallel wiring, periph.io pin names.
	RS string `mapstructure:"rs"`
	EN string `mapstructure:"en"`
	D4 string `mapstructure:"d4"`
	D5 string `mapstructure:"d5"`
	D6 string `mapstructure:"d6"`
	D7 string `mapstructure:"d7"`
}

// CameraConfig configures the still-capture backend.
type CameraConfig struct {
	Backend string        `mapstructure:"backend"` // "rpicam" or "gst"
	Width   int           `mapstructure:"width"`
	Height  int           `mapstructure:"height"`
	Warmup  time.Duration `mapstructure:"warmup"` // exposure settle time before the shot
}

// CaptionConfig selects and configures the vision-language backend.
type CaptionConfig struct {
	Backend string             `mapstructure:"backend"` // "openai" or "local"
	OpenAI  OpenAICaptionConf  `mapstructure:"openai"`
	Local   LocalCaptionConfig `mapstructure:"local"`
}

// OpenAICaptionConf holds OpenAI API settings for captioning.
type OpenAICaptionConf struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LocalCaptionConfig holds self-hosted multimodal model settings (Ollama).
type LocalCaptionConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"` // multimodal Ollama model (e.g., "llava")
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Backend  string       `mapstructure:"backend"`  // "google" or "piper"
	Language string       `mapstructure:"language"` // ISO-639-1 code for spoken output
	Piper    PiperConfig  `mapstructure:"piper"`
	Google   GoogleConfig `mapstructure:"google"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string            `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voices   map[string]string `mapstructure:"voices"`   // ISO-639-1 language code -> Piper voice model name
}

// GoogleConfig holds Google Translate TTS settings.
type GoogleConfig struct {
	// CacheDir is where synthesized clips are written before playback.
	CacheDir string `mapstructure:"cache_dir"`
}

// AudioConfig locates the pre-recorded sound assets.
type AudioConfig struct {
	// SoundsDir is the directory holding the named clips below.
	SoundsDir string `mapstructure:"sounds_dir"`

	// Clips maps clip names ("start", "shutter") to file names in SoundsDir.
	Clips map[string]string `mapstructure:"clips"`
}

// StorageConfig locates the on-disk interaction state.
type StorageConfig struct {
	// DataDir holds captured photos and the history log.
	DataDir string `mapstructure:"data_dir"`
}

// ServerConfig holds the local status server settings.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./visioncaster.yaml, ./configs/visioncaster.yaml,
// /etc/visioncaster/visioncaster.yaml. The defaults mirror the wiring of the
// reference device, so a bare run needs no config file at all.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("hardware.button_pin", "GPIO16")
	v.SetDefault("hardware.short_press", "500ms")
	v.SetDefault("hardware.debounce", "100ms")
	v.SetDefault("hardware.lcd.backend", "hd44780")
	v.SetDefault("hardware.lcd.columns", 16)
	v.SetDefault("hardware.lcd.rows", 2)
	v.SetDefault("hardware.lcd.rs", "GPIO25")
	v.SetDefault("hardware.lcd.en", "GPIO24")
	v.SetDefault("hardware.lcd.d4", "GPIO23")
	v.SetDefault("hardware.lcd.d5", "GPIO17")
	v.SetDefault("hardware.lcd.d6", "GPIO18")
	v.SetDefault("hardware.lcd.d7", "GPIO22")
	v.SetDefault("camera.backend", "rpicam")
	v.SetDefault("camera.width", 1920)
	v.SetDefault("camera.height", 1080)
	v.SetDefault("camera.warmup", "1s")
	v.SetDefault("caption.backend", "local")
	v.SetDefault("caption.openai.model", "gpt-4o-mini")
	v.SetDefault("caption.local.endpoint", "http://localhost:11434/api/generate")
	v.SetDefault("caption.local.model", "llava")
	v.SetDefault("tts.backend", "google")
	v.SetDefault("tts.language", "en")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("tts.google.cache_dir", os.TempDir())
	v.SetDefault("audio.sounds_dir", "sounds")
	v.SetDefault("audio.clips", map[string]string{
		"start":   "pi-start.mp3",
		"shutter": "camera-shutter.mp3",
	})
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8081)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("visioncaster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/visioncaster")
	}

	// Environment variables: VISIONCASTER_HARDWARE_BUTTON_PIN, VISIONCASTER_CAPTION_BACKEND, etc.
	v.SetEnvPrefix("VISIONCASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.Caption.OpenAI.APIKey = resolveEnvRef(cfg.Caption.OpenAI.APIKey)

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
