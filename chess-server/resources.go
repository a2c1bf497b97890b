package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
	"go.uber.org/zap"

	"chess-mcp/internal/chess"
)

const (
	mimeJSON = "application/json"
	mimePGN  = "application/x-chess-pgn"
	mimeText = "text/plain"
)

// resourceView is a read-only wrapper around one operation. Reads never
// fail at the protocol level: errors are rendered as "Error <doing>: <msg>".
type resourceView struct {
	name        string
	uriTemplate string
	description string
	mimeType    string
	doing       string
	read        func(ctx context.Context, vars uritemplate.Values) (any, error)
}

func registerResources(ts *toolServer) {
	svc := ts.svc
	for _, v := range []resourceView{
		{
			name:        "player_profile",
			uriTemplate: "chess://player/{username}",
			description: "Player profile",
			doing:       "retrieving player profile",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.PlayerProfile(ctx, vars.Get("username").String())
			},
		},
		{
			name:        "player_stats",
			uriTemplate: "chess://player/{username}/stats",
			description: "Player ratings and statistics",
			doing:       "retrieving player stats",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.PlayerStats(ctx, vars.Get("username").String())
			},
		},
		{
			name:        "player_online",
			uriTemplate: "chess://player/{username}/is-online",
			description: "Whether the player is online",
			doing:       "retrieving online status",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.PlayerOnline(ctx, vars.Get("username").String())
			},
		},
		{
			name:        "player_current_games",
			uriTemplate: "chess://player/{username}/games/current",
			description: "Player's ongoing daily games",
			doing:       "retrieving current games",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.PlayerCurrentGames(ctx, vars.Get("username").String())
			},
		},
		{
			name:        "player_game_archives",
			uriTemplate: "chess://player/{username}/games/archives",
			description: "Monthly archives available for the player",
			doing:       "retrieving game archives",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.GameArchives(ctx, vars.Get("username").String())
			},
		},
		{
			name:        "player_games_by_month",
			uriTemplate: "chess://player/{username}/games/{year}/{month}",
			description: "First page of the player's games for a month",
			doing:       "retrieving games by month",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				year, month, err := yearMonth(vars)
				if err != nil {
					return nil, err
				}
				return svc.GamesByMonth(ctx, vars.Get("username").String(), year, month, chess.PageRequest{})
			},
		},
		{
			name:        "player_games_pgn",
			uriTemplate: "chess://player/{username}/games/{year}/{month}/pgn",
			description: "The player's games for a month as PGN",
			mimeType:    mimePGN,
			doing:       "downloading PGN data",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				year, month, err := yearMonth(vars)
				if err != nil {
					return nil, err
				}
				pgn, err := svc.DownloadPGN(ctx, vars.Get("username").String(), year, month)
				return pgnText(pgn), err
			},
		},
		{
			name:        "titled_players",
			uriTemplate: "chess://titled/{title}",
			description: "First page of players holding a title",
			doing:       "retrieving titled players",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.TitledPlayers(ctx, vars.Get("title").String(), chess.PageRequest{})
			},
		},
		{
			name:        "club_profile",
			uriTemplate: "chess://club/{url_id}",
			description: "Club profile",
			doing:       "retrieving club profile",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.ClubProfile(ctx, vars.Get("url_id").String())
			},
		},
		{
			name:        "club_members",
			uriTemplate: "chess://club/{url_id}/members",
			description: "First page of a club's members",
			doing:       "retrieving club members",
			read: func(ctx context.Context, vars uritemplate.Values) (any, error) {
				return svc.ClubMembers(ctx, vars.Get("url_id").String(), chess.PageRequest{})
			},
		},
	} {
		addResource(ts, v)
	}
}

func addResource(ts *toolServer, v resourceView) {
	if v.mimeType == "" {
		v.mimeType = mimeJSON
	}
	tmpl := uritemplate.MustNew(v.uriTemplate)
	ts.server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        v.name,
		URITemplate: v.uriTemplate,
		Description: v.description,
		MIMEType:    v.mimeType,
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		text, err := v.render(ctx, tmpl, uri)
		ts.metrics.ObserveCall("resource", v.uriTemplate, err)
		mime := v.mimeType
		if err != nil {
			ts.log.Info("resource read failed", zap.String("uri", uri), zap.Error(err))
			text, mime = fmt.Sprintf("Error %s: %v", v.doing, err), mimeText
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: mime, Text: text},
			},
		}, nil
	})
}

func (v resourceView) render(ctx context.Context, tmpl *uritemplate.Template, uri string) (string, error) {
	vars := tmpl.Match(uri)
	if vars == nil {
		return "", errors.Errorf("uri %q does not match %s", uri, v.uriTemplate)
	}
	out, err := v.read(ctx, vars)
	if err != nil {
		return "", err
	}
	if pgn, ok := out.(pgnText); ok {
		return string(pgn), nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode result")
	}
	return string(b), nil
}

func yearMonth(vars uritemplate.Values) (int, int, error) {
	year, err := strconv.Atoi(vars.Get("year").String())
	if err != nil {
		return 0, 0, errors.Wrap(err, "year")
	}
	month, err := strconv.Atoi(vars.Get("month").String())
	if err != nil {
		return 0, 0, errors.Wrap(err, "month")
	}
	return year, month, nil
}
