package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mmcdole/plexvideo/internal/adapter"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
	"github.com/mmcdole/plexvideo/internal/video"
	"github.com/spf13/pflag"
)

const usage = `Usage: plexvideo [flags] <command> [args]

Commands:
  login                      link this client to a plex.tv account
  identity                   show the server machine identifier
  info <ratingKey>           show an item
  streams <ratingKey>        list video, audio and subtitle streams
  select <ratingKey> <id>    select an audio or subtitle stream
  url <ratingKey>            print a transcoded HLS URL
  play <ratingKey>           open the transcoded stream in a local player
  watch <ratingKey>          mark watched
  unwatch <ratingKey>        mark unwatched
  refresh <ratingKey>        rescan metadata on the server
  analyze <ratingKey>        run media analysis on the server
  children <ratingKey>       list seasons of a show or episodes of a season
  episodes <ratingKey>       list episodes of a show or season
  search <ratingKey> <query> fuzzy-search episodes of a show or season

Flags:
`

// options holds the per-command flags
type options struct {
	configDir  string
	maxBitrate int
	resolution string
	offset     int
	protocol   string
	mediaIndex int
	watched    bool
	unwatched  bool
	async      bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	flags := pflag.NewFlagSet("plexvideo", pflag.ContinueOnError)
	flags.StringVar(&opts.configDir, "config-dir", "", "directory holding config.yaml")
	flags.String("server", "", "server URL, e.g. http://192.168.1.100:32400")
	flags.String("token", "", "X-Plex-Token")
	flags.String("log-level", "", "DEBUG, INFO, WARN or ERROR")
	flags.IntVar(&opts.maxBitrate, "max-bitrate", 0, "url, play: maximum video bitrate in kbps")
	flags.StringVar(&opts.resolution, "resolution", "", "url: video resolution as WIDTHxHEIGHT")
	flags.IntVar(&opts.offset, "offset", 0, "url, play: start offset in seconds")
	flags.StringVar(&opts.protocol, "protocol", "hls", "url: streaming protocol")
	flags.IntVar(&opts.mediaIndex, "media-index", 0, "url: media version to stream")
	flags.BoolVar(&opts.watched, "watched", false, "episodes: only watched")
	flags.BoolVar(&opts.unwatched, "unwatched", false, "episodes: only unwatched")
	flags.BoolVar(&opts.async, "async", false, "select: do not wait for the server")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	var v = adapter.NewViper()
	if opts.configDir != "" {
		v = adapter.NewViper(opts.configDir)
	}
	for key, name := range map[string]string{
		"server.url":    "server",
		"server.token":  "token",
		"logging.level": "log-level",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg, err := adapter.LoadConfig(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	if cfg.EnsureIdentifier() {
		if err := adapter.SaveConfig(v, cfg, opts.configDir); err != nil {
			logger.Warn("failed to persist client identifier", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	identity := plex.ClientIdentity{
		ID:       cfg.Client.Identifier,
		Product:  cfg.Client.Product,
		Platform: cfg.Client.Platform,
	}
	out := newPrinter(os.Stdout)

	command, rest := flags.Arg(0), flags.Args()[1:]
	logger.Info("running command", "command", command)

	if command == "login" {
		return runLogin(ctx, v, cfg, identity, opts, out, logger)
	}

	if !cfg.IsConfigured() {
		return errors.New("server URL and token are not configured; run plexvideo login or set PLEXVIDEO_SERVER_URL and PLEXVIDEO_SERVER_TOKEN")
	}

	client := plex.NewClient(cfg.Server.URL, cfg.Server.Token, logger,
		plex.WithIdentity(identity),
		plex.WithTranscodeURL(cfg.Server.TranscodeURL),
	)
	a := &app{
		client:   client,
		lib:      video.NewLibrary(client, logger),
		out:      out,
		opts:     opts,
		platform: cfg.Client.Platform,
		player:   adapter.NewPlayer(cfg.Player, logger),
		logger:   logger,
	}
	return a.dispatch(ctx, command, rest)
}
