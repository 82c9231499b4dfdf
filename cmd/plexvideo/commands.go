package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmcdole/plexvideo/internal/adapter"
	"github.com/mmcdole/plexvideo/internal/domain"
	"github.com/mmcdole/plexvideo/internal/mediaserver/plex"
	"github.com/mmcdole/plexvideo/internal/video"
	"github.com/spf13/viper"
)

type app struct {
	client   *plex.Client
	lib      *video.Library
	out      *printer
	opts     options
	platform string
	player   *adapter.Player
	logger   *slog.Logger
}

// playableItem is implemented by movies and episodes
type playableItem interface {
	video.Item
	VideoStreams() []*video.Stream
	AudioStreams() []*video.Stream
	SubtitleStreams() []*video.Stream
	SelectStream(ctx context.Context, stream *video.Stream, async bool) error
}

// episodeContainer is implemented by shows and seasons
type episodeContainer interface {
	video.Item
	Episodes(ctx context.Context, filter video.WatchFilter) ([]*video.Episode, error)
	SearchEpisodes(ctx context.Context, query string) ([]*video.Episode, error)
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	if command == "identity" {
		return a.identity(ctx)
	}

	want := 1
	if command == "select" || command == "search" {
		want = 2
	}
	if len(args) != want {
		return fmt.Errorf("%s expects %d argument(s)", command, want)
	}

	item, err := a.lib.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	switch command {
	case "info":
		a.out.item(item)
		return nil
	case "streams":
		return a.streams(item)
	case "select":
		return a.selectStream(ctx, item, args[1])
	case "url":
		u, err := a.streamURL(item, a.opts.offset)
		if err != nil {
			return err
		}
		a.out.line("%s", u)
		return nil
	case "play":
		return a.play(item)
	case "watch":
		return a.scrobble(item.MarkWatched(ctx), item)
	case "unwatch":
		return a.scrobble(item.MarkUnwatched(ctx), item)
	case "refresh":
		if err := item.Refresh(ctx); err != nil {
			return err
		}
		a.out.ok("refresh requested for %s; fetch again once the server finishes", item.Base().Title)
		return nil
	case "analyze":
		if err := item.Analyze(ctx); err != nil {
			return err
		}
		a.out.ok("analysis requested for %s", item.Base().Title)
		return nil
	case "children":
		return a.children(ctx, item)
	case "episodes":
		return a.episodes(ctx, item)
	case "search":
		return a.search(ctx, item, args[1])
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) identity(ctx context.Context) error {
	container, err := a.client.FetchIdentity(ctx)
	if err != nil {
		return err
	}
	a.out.field("Machine", container.MachineIdentifier)
	a.out.field("Version", container.Version)
	return nil
}

func (a *app) streams(item video.Item) error {
	p, ok := item.(playableItem)
	if !ok {
		return fmt.Errorf("streams of a %s: %w", item.Base().Type, domain.ErrUnsupported)
	}
	a.out.streams("Video", p.VideoStreams())
	a.out.streams("Audio", p.AudioStreams())
	a.out.streams("Subtitles", p.SubtitleStreams())
	return nil
}

func (a *app) selectStream(ctx context.Context, item video.Item, rawID string) error {
	p, ok := item.(playableItem)
	if !ok {
		return fmt.Errorf("select stream of a %s: %w", item.Base().Type, domain.ErrUnsupported)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("invalid stream id %q: %w", rawID, err)
	}

	var all []*video.Stream
	all = append(all, p.AudioStreams()...)
	all = append(all, p.SubtitleStreams()...)
	for _, s := range all {
		if s.ID != id {
			continue
		}
		if err := p.SelectStream(ctx, s, a.opts.async); err != nil {
			return err
		}
		a.out.ok("selected %s stream %s", s.StreamType, s)
		return nil
	}
	return fmt.Errorf("stream %d: %w", id, domain.ErrItemNotFound)
}

func (a *app) streamURL(item video.Item, offset int) (string, error) {
	opts := []video.StreamOption{
		video.WithOffset(offset),
		video.WithProtocol(a.opts.protocol),
		video.WithMediaIndex(a.opts.mediaIndex),
		video.WithPlatform(a.platform),
	}
	if a.opts.maxBitrate > 0 {
		opts = append(opts, video.WithMaxVideoBitrate(a.opts.maxBitrate))
	}
	if a.opts.resolution != "" {
		var w, h int
		if _, err := fmt.Sscanf(a.opts.resolution, "%dx%d", &w, &h); err != nil {
			return "", fmt.Errorf("invalid resolution %q: %w", a.opts.resolution, err)
		}
		opts = append(opts, video.WithVideoResolution(w, h))
	}
	return video.StreamURL(item, opts...)
}

// play resumes from the last view offset unless --offset is given
func (a *app) play(item video.Item) error {
	offset := a.opts.offset
	if offset == 0 {
		offset = int(item.Base().ViewOffset.Seconds())
	}
	u, err := a.streamURL(item, offset)
	if err != nil {
		return err
	}
	if err := a.player.Open(u); err != nil {
		return err
	}
	a.out.ok("playing %s", item.Base().Title)
	return nil
}

func (a *app) scrobble(err error, item video.Item) error {
	if errors.Is(err, domain.ErrReloadFailed) {
		a.out.warn("the server recorded the change but the item could not be reloaded")
		return err
	}
	if err != nil {
		return err
	}
	a.out.item(item)
	return nil
}

func (a *app) children(ctx context.Context, item video.Item) error {
	switch it := item.(type) {
	case *video.Show:
		seasons, err := it.Seasons(ctx)
		if err != nil {
			return err
		}
		for _, s := range seasons {
			a.out.listEntry(s)
		}
		return nil
	case *video.Season:
		return a.episodes(ctx, it)
	default:
		return fmt.Errorf("children of a %s: %w", item.Base().Type, domain.ErrUnsupported)
	}
}

func (a *app) episodes(ctx context.Context, item video.Item) error {
	c, ok := item.(episodeContainer)
	if !ok {
		return fmt.Errorf("episodes of a %s: %w", item.Base().Type, domain.ErrUnsupported)
	}
	filter := video.AnyWatchState
	switch {
	case a.opts.watched && a.opts.unwatched:
		return errors.New("--watched and --unwatched are exclusive")
	case a.opts.watched:
		filter = video.OnlyWatched
	case a.opts.unwatched:
		filter = video.OnlyUnwatched
	}

	episodes, err := c.Episodes(ctx, filter)
	if err != nil {
		return err
	}
	for _, e := range episodes {
		a.out.listEntry(e)
	}
	return nil
}

func (a *app) search(ctx context.Context, item video.Item, query string) error {
	c, ok := item.(episodeContainer)
	if !ok {
		return fmt.Errorf("search in a %s: %w", item.Base().Type, domain.ErrUnsupported)
	}
	episodes, err := c.SearchEpisodes(ctx, query)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		a.out.warn("no episodes match %q", query)
		return nil
	}
	for _, e := range episodes {
		a.out.listEntry(e)
	}
	return nil
}

// runLogin links the client to plex.tv with a PIN and stores the token
func runLogin(ctx context.Context, v *viper.Viper, cfg *adapter.Config, identity plex.ClientIdentity, opts options, out *printer, logger *slog.Logger) error {
	if cfg.Server.URL == "" {
		return errors.New("set the server URL first (--server or PLEXVIDEO_SERVER_URL)")
	}

	auth := plex.NewAuthClient(identity, logger)
	pin, pinID, err := auth.GetPIN(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate PIN: %w", err)
	}

	out.banner(plex.LinkURL, pin)
	out.line("Waiting for authentication...")

	token, err := auth.WaitForPIN(ctx, pinID, 5*time.Minute)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := adapter.SaveToken(v, cfg, token, opts.configDir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	out.ok("authenticated; configuration saved")
	return nil
}
