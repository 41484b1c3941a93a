// Visioncaster is a button-driven smart camera appliance: a short press of
// the physical button captures a photo, a vision-language model captions
// it, and the caption is spoken aloud and shown on the character display
// while the interaction is appended to a JSON log.
//
// Usage:
//
//	visioncaster [flags]
//	visioncaster --config /path/to/visioncaster.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"periph.io/x/host/v3"

	"github.com/crypticsy/VisionCaster/internal/audio"
	"github.com/crypticsy/VisionCaster/internal/button"
	"github.com/crypticsy/VisionCaster/internal/camera"
	"github.com/crypticsy/VisionCaster/internal/camera/gstcam"
	"github.com/crypticsy/VisionCaster/internal/camera/rpicam"
	"github.com/crypticsy/VisionCaster/internal/caption"
	captionlocal "github.com/crypticsy/VisionCaster/internal/caption/local"
	captionopenai "github.com/crypticsy/VisionCaster/internal/caption/openai"
	"github.com/crypticsy/VisionCaster/internal/config"
	"github.com/crypticsy/VisionCaster/internal/display"
	"github.com/crypticsy/VisionCaster/internal/display/console"
	"github.com/crypticsy/VisionCaster/internal/display/hd44780lcd"
	"github.com/crypticsy/VisionCaster/internal/feedback"
	"github.com/crypticsy/VisionCaster/internal/history"
	"github.com/crypticsy/VisionCaster/internal/interaction"
	"github.com/crypticsy/VisionCaster/internal/observability"
	"github.com/crypticsy/VisionCaster/internal/tts"
	"github.com/crypticsy/VisionCaster/internal/tts/google"
	"github.com/crypticsy/VisionCaster/internal/tts/piper"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/visioncaster.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("visioncaster %s\n", version)
		os.Exit(0)
	}

	// Optional .env for API keys referenced from the config.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("visioncaster starting", "version", version)

	if err := run(cfg); err != nil {
		slog.Error("visioncaster failed", "error", err)
		os.Exit(1)
	}
	slog.Info("visioncaster stopped")
}

func run(cfg *config.Config) error {
	// Root context with signal handling for graceful shutdown. An interrupt
	// takes effect at the next poll boundary; an in-flight capture pipeline
	// runs to completion first, and the hardware teardown below runs
	// regardless of where termination was requested.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing periph host: %w", err)
	}

	line, err := button.OpenGPIO(cfg.Hardware.ButtonPin)
	if err != nil {
		return fmt.Errorf("opening button line: %w", err)
	}
	defer line.Close()

	var disp display.Display
	switch cfg.Hardware.LCD.Backend {
	case "hd44780":
		disp, err = hd44780lcd.New(cfg.Hardware.LCD)
		if err != nil {
			return fmt.Errorf("opening display: %w", err)
		}
	case "console":
		disp = console.New(cfg.Hardware.LCD)
	default:
		return fmt.Errorf("unknown display backend %q", cfg.Hardware.LCD.Backend)
	}
	defer disp.Close()

	var cam camera.Camera
	switch cfg.Camera.Backend {
	case "rpicam":
		cam = rpicam.New(cfg.Camera)
	case "gst":
		cam = gstcam.New(cfg.Camera)
	default:
		return fmt.Errorf("unknown camera backend %q", cfg.Camera.Backend)
	}
	defer cam.Close()

	// The captioning backend is constructed once and reused across presses;
	// per-press setup would make the device impractically slow.
	var backend caption.Captioner
	switch cfg.Caption.Backend {
	case "openai":
		backend = captionopenai.New(cfg.Caption.OpenAI)
		slog.Info("using OpenAI captioner", "model", cfg.Caption.OpenAI.Model)
	case "local":
		backend = captionlocal.New(cfg.Caption.Local)
		slog.Info("using local captioner", "endpoint", cfg.Caption.Local.Endpoint, "model", cfg.Caption.Local.Model)
	default:
		return fmt.Errorf("unknown caption backend %q", cfg.Caption.Backend)
	}
	captions := caption.NewService(backend)
	defer captions.Close()

	var synth tts.Synthesizer
	switch cfg.TTS.Backend {
	case "google":
		synth = google.New(cfg.TTS.Google)
	case "piper":
		synth = piper.New(cfg.TTS.Piper)
	default:
		return fmt.Errorf("unknown tts backend %q", cfg.TTS.Backend)
	}
	defer synth.Close()

	player, err := audio.NewPlayer(cfg.Audio)
	if err != nil {
		return err
	}
	defer player.Close()

	sink := feedback.NewSink(disp, synth, player, cfg.TTS.Language)

	// The history file must pre-exist as a valid JSON array; verify now so
	// a bad log is a startup fault rather than a mid-press one.
	store := history.NewStore(filepath.Join(cfg.Storage.DataDir, "history.json"))
	if _, err := store.Load(); err != nil {
		return err
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	captions.OnFallback = metrics.CaptionFallbacks.Inc

	machine := interaction.NewMachine(sink, cam, captions, store,
		cfg.Storage.DataDir, cfg.Hardware.ShortPress)
	machine.Hooks = interaction.Hooks{
		ShortPress: func(took time.Duration) {
			metrics.Interactions.Inc()
			metrics.PipelineSeconds.Observe(took.Seconds())
		},
		LongPress: metrics.LongPresses.Inc,
	}

	var server *observability.Server
	if cfg.Server.Enabled {
		server = observability.NewServer(cfg.Server.Port, store)
		go func() {
			if err := server.ListenAndServe(ctx); err != nil {
				slog.Error("status server failed", "error", err)
			}
		}()
	}

	// Startup chime and ready message.
	sink.Clear()
	if err := sink.PlayClip(ctx, interaction.ClipStart); err != nil {
		return fmt.Errorf("playing startup chime: %w", err)
	}
	sink.Show(interaction.MsgReady, 0)
	if server != nil {
		server.SetReady(true)
	}
	slog.Info("visioncaster ready",
		"button", cfg.Hardware.ButtonPin,
		"camera", cfg.Camera.Backend,
		"caption", cfg.Caption.Backend,
		"tts", cfg.TTS.Backend)

	debouncer := button.NewDebouncer(line, cfg.Hardware.Debounce)
	err = machine.Run(ctx, debouncer)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	// Farewell message, held so it is readable before the panel goes dark.
	slog.Info("shutdown signal received")
	sink.Show(interaction.MsgExiting, 5*time.Second)
	return err
}
