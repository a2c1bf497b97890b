package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"chess-mcp/internal/chess"
	"chess-mcp/internal/config"
	"chess-mcp/internal/fetch"
	"chess-mcp/internal/logging"
)

type options struct {
	Op       string
	Username string
	Year     int
	Month    int
	Title    string
	Club     string
	PageSize int
	Cursor   string
}

var ops = []string{
	"profile", "stats", "online", "current-games", "games", "archives",
	"titled", "club", "members", "pgn",
}

func main() {
	var (
		opts       options
		configPath = flag.String("config", "", "optional YAML config file")
		out        = flag.String("out", "", "write the result to this file instead of stdout")
	)
	flag.StringVar(&opts.Op, "op", "profile", "operation: "+strings.Join(ops, "|"))
	flag.StringVar(&opts.Username, "username", "", "Chess.com username")
	flag.IntVar(&opts.Year, "year", 0, "year for games/pgn")
	flag.IntVar(&opts.Month, "month", 0, "month (1-12) for games/pgn")
	flag.StringVar(&opts.Title, "title", "GM", "title for -op titled")
	flag.StringVar(&opts.Club, "club", "", "club url id for -op club/members")
	flag.IntVar(&opts.PageSize, "page-size", 0, "page size for list operations (0 = default)")
	flag.StringVar(&opts.Cursor, "cursor", "", "cursor from a previous page")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	must(err)
	logger, err := logging.New(cfg.LogLevel)
	must(err)
	defer func() { _ = logger.Sync() }()

	api := fetch.NewClient(cfg.BaseURL, cfg.Timeout, logger)
	api.UserAgent = cfg.UserAgent
	svc := chess.NewService(api, logger)

	body, err := run(context.Background(), svc, opts)
	if err != nil {
		logger.Fatal("fetch failed", zap.String("op", opts.Op), zap.Error(err))
	}
	if *out == "" {
		fmt.Println(string(body))
		return
	}
	must(writeFile(*out, body))
	logger.Info("wrote result", zap.String("path", *out))
}

// run executes one operation and renders it the same way the server does:
// indented JSON, or raw PGN text.
func run(ctx context.Context, svc *chess.Service, o options) ([]byte, error) {
	page := chess.PageRequest{Cursor: o.Cursor}
	if o.PageSize != 0 {
		page.PageSize = &o.PageSize
	}

	var (
		v   any
		err error
	)
	switch o.Op {
	case "profile":
		v, err = svc.PlayerProfile(ctx, o.Username)
	case "stats":
		v, err = svc.PlayerStats(ctx, o.Username)
	case "online":
		v, err = svc.PlayerOnline(ctx, o.Username)
	case "current-games":
		v, err = svc.PlayerCurrentGames(ctx, o.Username)
	case "games":
		v, err = svc.GamesByMonth(ctx, o.Username, o.Year, o.Month, page)
	case "archives":
		v, err = svc.GameArchives(ctx, o.Username)
	case "titled":
		v, err = svc.TitledPlayers(ctx, o.Title, page)
	case "club":
		v, err = svc.ClubProfile(ctx, o.Club)
	case "members":
		v, err = svc.ClubMembers(ctx, o.Club, page)
	case "pgn":
		pgn, err := svc.DownloadPGN(ctx, o.Username, o.Year, o.Month)
		if err != nil {
			return nil, err
		}
		return []byte(pgn), nil
	default:
		return nil, errors.Errorf("unknown op %q (want one of %s)", o.Op, strings.Join(ops, ", "))
	}
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

func writeFile(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
