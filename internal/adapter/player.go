package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoPlayer is returned when no player could be started
var ErrNoPlayer = errors.New("no media player found")

// launchPath is one way to start a player. Paths prefixed "open-a:" name a
// macOS application started through open(1).
type launchPath struct {
	path      string
	openFlags []string
}

// knownPlayers lists, per player and platform, the launch paths tried in order
var knownPlayers = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
}

// candidateOrder is the preferred player order for each platform
var candidateOrder = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv"},
}

// Player opens HLS stream URLs in an external media player. Stream URLs
// already carry the start offset, so no seek flag is passed.
type Player struct {
	command string
	args    []string
	goos    string
	logger  *slog.Logger

	// start runs name with args without waiting for it to exit
	start func(name string, args ...string) error
	// lookPath reports whether name is an executable on PATH
	lookPath func(name string) error
}

// NewPlayer creates a player from cfg. An empty command auto-detects a
// known player and falls back to the system URL handler.
func NewPlayer(cfg PlayerConfig, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		command: cfg.Command,
		args:    cfg.Args,
		goos:    runtime.GOOS,
		logger:  logger,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		lookPath: func(name string) error {
			_, err := exec.LookPath(name)
			return err
		},
	}
}

// Open starts a player on streamURL
func (p *Player) Open(streamURL string) error {
	if p.command != "" {
		p.logger.Info("using configured player", "command", p.command)
		args := append(append([]string{}, p.args...), streamURL)
		if err := p.start(p.command, args...); err != nil {
			return fmt.Errorf("start %s: %w", p.command, err)
		}
		return nil
	}

	if name, err := p.openDetected(streamURL); err == nil {
		p.logger.Info("launched detected player", "player", name)
		return nil
	}

	p.logger.Info("no known player found, using system default", "os", p.goos)
	return p.openDefault(streamURL)
}

func (p *Player) openDetected(streamURL string) (string, error) {
	candidates, ok := candidateOrder[p.goos]
	if !ok {
		candidates = candidateOrder["linux"]
	}

	for _, name := range candidates {
		for _, lp := range knownPlayers[name][p.goos] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				args := append(append([]string{}, lp.openFlags...), "-a", app, streamURL)
				err = p.start("open", args...)
			} else if err = p.lookPath(lp.path); err == nil {
				err = p.start(lp.path, streamURL)
			}
			if err == nil {
				return name, nil
			}
			p.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", ErrNoPlayer
}

func (p *Player) openDefault(streamURL string) error {
	var err error
	switch p.goos {
	case "darwin":
		err = p.start("open", streamURL)
	case "windows":
		err = p.start("cmd", "/c", "start", "", streamURL)
	default:
		err = p.start("xdg-open", streamURL)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoPlayer, err)
	}
	return nil
}
