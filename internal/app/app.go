package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/keymap"
	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/playlist"
	"github.com/llehouerou/deck/internal/source"
	"github.com/llehouerou/deck/internal/ui/albumart"
	"github.com/llehouerou/deck/internal/ui/playerview"
	"github.com/llehouerou/deck/internal/ui/textinput"
)

// Deps are the resources the app drives. Player is required.
type Deps struct {
	Player    player.Interface
	Bridge    *Bridge            // nil creates one
	Blobs     *source.Store      // shared with the player's resolver
	Watcher   *ingest.Watcher    // nil disables the drop folder
	Cover     *albumart.Renderer // nil disables cover images
	Listeners []playback.Listener
	Log       *zap.Logger
}

// Options configure the initial playlist and volume.
type Options struct {
	Playback playback.Options
	Volume   float64          // 0-100
	Demo     []playlist.Track // appended first
	Files    []string         // collected and appended at startup
}

// Model is the bubbletea model. Everything it points to is only touched
// from the event loop, except the bridge.
type Model struct {
	Controller *playback.Controller
	Screen     *playerview.Model
	Prompt     textinput.Model

	player  player.Interface
	bridge  *Bridge
	watcher *ingest.Watcher
	cover   *albumart.Renderer
	keys    *keymap.Resolver
	help    string
	files   []string
	log     *zap.Logger

	Width, Height int

	statusVersion int
}

// New builds the controller and its view, applies the initial volume and
// appends the demo tracks.
func New(ctx context.Context, deps Deps, opts Options) Model {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	bridge := deps.Bridge
	if bridge == nil {
		bridge = NewBridge(ctx)
	}

	listeners := deps.Listeners
	if deps.Cover != nil {
		listeners = append(listeners, deps.Cover)
	}

	view := playerview.New()
	ctrl := playback.New(ctx, playback.Deps{
		Player:    deps.Player,
		View:      view,
		Scheduler: bridge,
		Blobs:     deps.Blobs,
		Log:       log,
		Listeners: listeners,
	}, opts.Playback)
	ctrl.SetVolume(opts.Volume)
	ctrl.LoadDemo(opts.Demo)

	bindings := keymap.ForContexts("global", "playback", "playlist")
	m := Model{
		Controller: ctrl,
		Screen:     view,
		Prompt:     textinput.New(),
		player:     deps.Player,
		bridge:     bridge,
		watcher:    deps.Watcher,
		cover:      deps.Cover,
		keys:       bindings,
		help: keymap.Help(keymap.Bindings,
			keymap.ActionPlayPause,
			keymap.ActionPrevTrack,
			keymap.ActionNextTrack,
			keymap.ActionSeekBack,
			keymap.ActionSeekForward,
			keymap.ActionVolumeDown,
			keymap.ActionVolumeUp,
			keymap.ActionLoadTrack,
			keymap.ActionOpenPrompt,
			keymap.ActionQuit,
		),
		files: opts.Files,
		log:   log.Named("app"),
	}
	m.publish()
	return m
}

// Bridge returns the bridge the controller schedules through. It is the
// mpris.Host of this model.
func (m Model) Bridge() *Bridge {
	return m.bridge
}

// Init starts the event pumps and opens the startup files.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.bridge.wait(),
		waitForPlayerEvent(m.player.Events()),
		openPaths(m.files),
	}
	if m.watcher != nil {
		m.log.Info("watching drop folder", zap.String("dir", m.watcher.Dir()))
		cmds = append(cmds, waitForWatchedFile(m.watcher.Files()))
	}
	return tea.Batch(cmds...)
}

// publish shares the controller state with the bridge and brings the view
// parts the controller does not drive up to date.
func (m Model) publish() {
	snap := m.Controller.Snapshot()
	m.bridge.publish(snap)
	m.Screen.SetModes(snap.Shuffle, snap.Repeat)
	if m.cover != nil && m.cover.HasImage() {
		m.Screen.SetCoverWidth(m.cover.Cols() + 1)
	} else {
		m.Screen.SetCoverWidth(0)
	}
}
