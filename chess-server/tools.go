package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"chess-mcp/internal/chess"
	"chess-mcp/internal/metrics"
)

type UsernameArgs struct {
	Username string `json:"username" jsonschema:"Chess.com username (required)"`
}

type MonthArgs struct {
	Username string `json:"username" jsonschema:"Chess.com username (required)"`
	Year     int    `json:"year" jsonschema:"Four-digit year, e.g. 2023"`
	Month    int    `json:"month" jsonschema:"Month number 1-12"`
}

type GamesByMonthArgs struct {
	Username string `json:"username" jsonschema:"Chess.com username (required)"`
	Year     int    `json:"year" jsonschema:"Four-digit year, e.g. 2023"`
	Month    int    `json:"month" jsonschema:"Month number 1-12"`
	PageSize *int   `json:"page_size,omitempty" jsonschema:"Games per page, clamped to 1-200 (default 50)"`
	Cursor   string `json:"cursor,omitempty" jsonschema:"Opaque next_cursor from a previous page"`
}

type TitledPlayersArgs struct {
	Title    string `json:"title" jsonschema:"Title abbreviation: GM, WGM, IM, WIM, FM, WFM, NM, WNM, CM or WCM"`
	PageSize *int   `json:"page_size,omitempty" jsonschema:"Players per page, clamped to 1-500 (default 100)"`
	Cursor   string `json:"cursor,omitempty" jsonschema:"Opaque next_cursor from a previous page"`
}

type ClubArgs struct {
	URLID string `json:"url_id" jsonschema:"Club URL identifier, e.g. chess-com-developer-community"`
}

type ClubMembersArgs struct {
	URLID    string `json:"url_id" jsonschema:"Club URL identifier, e.g. chess-com-developer-community"`
	PageSize *int   `json:"page_size,omitempty" jsonschema:"Members per page, clamped to 1-500 (default 100)"`
	Cursor   string `json:"cursor,omitempty" jsonschema:"Opaque next_cursor from a previous page"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// pgnText is returned verbatim instead of being JSON encoded.
type pgnText string

// toolServer bundles what every tool and resource registration needs.
type toolServer struct {
	server   *mcp.Server
	svc      *chess.Service
	log      *zap.Logger
	metrics  *metrics.Metrics
	registry []toolInfo
}

func newToolServer(svc *chess.Service, logger *zap.Logger, m *metrics.Metrics) *toolServer {
	ts := &toolServer{
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    "chess-mcp",
				Version: version,
			},
			nil,
		),
		svc:      svc,
		log:      logger,
		metrics:  m,
		registry: make([]toolInfo, 0, 16),
	}
	registerTools(ts)
	registerResources(ts)
	return ts
}

func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}
}

func registerTools(ts *toolServer) {
	svc := ts.svc

	addTool(ts, &mcp.Tool{
		Name:        "get_player_profile",
		Description: "Get a player's profile from Chess.com",
	}, func(ctx context.Context, args UsernameArgs) (any, error) {
		return svc.PlayerProfile(ctx, args.Username)
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_player_stats",
		Description: "Get a player's ratings and stats from Chess.com",
	}, func(ctx context.Context, args UsernameArgs) (any, error) {
		return svc.PlayerStats(ctx, args.Username)
	})

	addTool(ts, &mcp.Tool{
		Name:        "is_player_online",
		Description: "Check if a player is currently online on Chess.com",
	}, func(ctx context.Context, args UsernameArgs) (any, error) {
		return svc.PlayerOnline(ctx, args.Username)
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_player_current_games",
		Description: "Get a player's ongoing daily games on Chess.com",
	}, func(ctx context.Context, args UsernameArgs) (any, error) {
		return svc.PlayerCurrentGames(ctx, args.Username)
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_player_games_by_month",
		Description: "Get a player's games for a specific month from Chess.com, paginated",
	}, func(ctx context.Context, args GamesByMonthArgs) (any, error) {
		return svc.GamesByMonth(ctx, args.Username, args.Year, args.Month, chess.PageRequest{
			PageSize: args.PageSize,
			Cursor:   args.Cursor,
		})
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_player_game_archives",
		Description: "List the monthly game archives available for a player on Chess.com",
	}, func(ctx context.Context, args UsernameArgs) (any, error) {
		return svc.GameArchives(ctx, args.Username)
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_titled_players",
		Description: "List titled players (GM, IM, FM, ...) on Chess.com, paginated",
	}, func(ctx context.Context, args TitledPlayersArgs) (any, error) {
		return svc.TitledPlayers(ctx, args.Title, chess.PageRequest{
			PageSize: args.PageSize,
			Cursor:   args.Cursor,
		})
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_club_profile",
		Description: "Get information about a club on Chess.com",
	}, func(ctx context.Context, args ClubArgs) (any, error) {
		return svc.ClubProfile(ctx, args.URLID)
	})

	addTool(ts, &mcp.Tool{
		Name:        "get_club_members",
		Description: "List members of a club on Chess.com (weekly, monthly and all-time activity), paginated",
	}, func(ctx context.Context, args ClubMembersArgs) (any, error) {
		return svc.ClubMembers(ctx, args.URLID, chess.PageRequest{
			PageSize: args.PageSize,
			Cursor:   args.Cursor,
		})
	})

	addTool(ts, &mcp.Tool{
		Name:        "download_player_games_pgn",
		Description: "Download all of a player's games for a month as PGN text",
	}, func(ctx context.Context, args MonthArgs) (any, error) {
		pgn, err := svc.DownloadPGN(ctx, args.Username, args.Year, args.Month)
		return pgnText(pgn), err
	})
}

func addTool[T any](ts *toolServer, tool *mcp.Tool, run func(context.Context, T) (any, error)) {
	if tool.Annotations == nil {
		tool.Annotations = readOnly()
	}
	ts.registry = append(ts.registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(ts.server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		out, err := run(ctx, args)
		ts.metrics.ObserveCall("tool", tool.Name, err)
		if err != nil {
			ts.log.Info("tool call failed", zap.String("tool", tool.Name), zap.Error(err))
			return toolError(err), nil, nil
		}
		if pgn, ok := out.(pgnText); ok {
			return toolText(string(pgn)), nil, nil
		}
		return toolMarshal(out)
	})
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolText(string(b)), nil, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
