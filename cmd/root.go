// Package cmd is the deck command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/app"
	"github.com/llehouerou/deck/internal/config"
	"github.com/llehouerou/deck/internal/errmsg"
	"github.com/llehouerou/deck/internal/icons"
	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/logging"
	"github.com/llehouerou/deck/internal/mpris"
	"github.com/llehouerou/deck/internal/notify"
	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/playlist"
	"github.com/llehouerou/deck/internal/source"
	"github.com/llehouerou/deck/internal/stderr"
	"github.com/llehouerou/deck/internal/ui/albumart"
)

// Cover image size in cells, matching the three-line now-playing block.
const (
	coverCols = 6
	coverRows = 3
)

type options struct {
	configPath string
	volume     float64
	watchDir   string
	noDemo     bool
	logLevel   string
}

// setupError is a startup failure, printed as a user-facing message.
type setupError struct {
	op      errmsg.Op
	subject string // file or folder involved, if any
	err     error
}

func (e *setupError) Error() string { return errmsg.FormatWith(e.op, e.subject, e.err) }
func (e *setupError) Unwrap() error { return e.err }

// NewRootCmd builds the deck command.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "deck [files...]",
		Short: "deck is a terminal playlist audio player.",
		Long: "deck plays a playlist of local files and URLs in the terminal.\n" +
			"Files and folders given as arguments, typed at the open prompt,\n" +
			"pasted or dragged onto the terminal are appended to the playlist.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/deck/config.toml)")
	f.Float64Var(&opts.volume, "volume", 70, "initial volume, 0-100")
	f.StringVar(&opts.watchDir, "watch", "", "append audio files created in this folder")
	f.BoolVar(&opts.noDemo, "no-demo", false, "start without the demo tracks")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// Execute runs the root command and exits on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("volume") {
		cfg.SetVolume(opts.volume)
	}
	if flags.Changed("watch") {
		cfg.WatchDir = opts.watchDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noDemo {
		cfg.Demo = nil
	}
	return cfg, nil
}

func demoTracks(demo []config.DemoTrack) []playlist.Track {
	return lo.Map(demo, func(d config.DemoTrack, _ int) playlist.Track {
		return playlist.Track{
			Title:   d.Title,
			Artist:  d.Artist,
			Source:  d.Source,
			Artwork: d.Artwork,
		}
	})
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return &setupError{errmsg.OpConfigLoad, opts.configPath, err}
	}
	icons.Init(cfg.Icons)

	logFile, err := cfg.LogFile()
	if err != nil {
		return &setupError{errmsg.OpLogOpen, "", err}
	}
	log, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		File:       logFile,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return &setupError{errmsg.OpLogOpen, "", err}
	}
	defer logCloser.Close()
	log.Info("starting", zap.String("log", logFile), zap.Float64("volume", cfg.Volume))

	// Audio backends print to fd 2; keep that out of the TUI.
	capture, err := stderr.Start(log)
	if err != nil {
		log.Warn("stderr capture unavailable", zap.Error(err))
	}
	defer capture.Stop()

	blobs := source.NewStore()
	p, err := player.New(source.NewResolver(blobs), log, player.Options{
		SampleRate:   cfg.Player.SampleRate,
		Buffer:       cfg.Player.Buffer,
		TickInterval: cfg.Player.TickInterval,
	})
	if err != nil {
		return &setupError{errmsg.OpAudioInit, "", err}
	}
	defer p.Close()

	var watcher *ingest.Watcher
	if cfg.WatchDir != "" {
		watcher, err = ingest.NewWatcher(cfg.WatchDir, log)
		if err != nil {
			return &setupError{errmsg.OpFolderWatch, cfg.WatchDir, err}
		}
		defer watcher.Close()
	}

	var listeners []playback.Listener
	if cfg.Notify {
		n, err := notify.New()
		if err != nil {
			log.Warn("notifications unavailable", zap.Error(err))
		} else {
			np := notify.NewNowPlaying(n, log)
			defer np.Dismiss()
			listeners = append(listeners, np)
		}
	}

	var cover *albumart.Renderer
	if cfg.Covers && albumart.Supported() {
		cover = albumart.New(coverCols, coverRows, log)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bridge := app.NewBridge(ctx)
	model := app.New(ctx, app.Deps{
		Player:    p,
		Bridge:    bridge,
		Blobs:     blobs,
		Watcher:   watcher,
		Cover:     cover,
		Listeners: listeners,
		Log:       log,
	}, app.Options{
		Playback: playback.Options{
			PlaceholderArtist:  cfg.Placeholder.Artist,
			PlaceholderArtwork: cfg.Placeholder.Artwork,
		},
		Volume: cfg.Volume,
		Demo:   demoTracks(cfg.Demo),
		Files:  args,
	})

	if cfg.MPRIS {
		adapter, err := mpris.New(bridge, log)
		if err != nil {
			log.Warn(errmsg.Format(errmsg.OpMediaKeys, err))
		} else {
			defer adapter.Close()
		}
	}

	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return &setupError{errmsg.OpInitialize, "", err}
	}
	log.Info("exiting")
	return nil
}
