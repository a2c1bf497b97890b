package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Operation names double as metric labels and span names.
const (
	OpPlayerProfile      = "player_profile"
	OpPlayerStats        = "player_stats"
	OpPlayerOnline       = "player_online"
	OpPlayerCurrentGames = "player_current_games"
	OpGamesByMonth       = "games_by_month"
	OpGameArchives       = "game_archives"
	OpTitledPlayers      = "titled_players"
	OpClubProfile        = "club_profile"
	OpClubMembers        = "club_members"
	OpGamesPGN           = "games_pgn"
)

func monthPath(username string, year, month int) string {
	return fmt.Sprintf("player/%s/games/%d/%02d", url.PathEscape(username), year, month)
}

// /player/{username}
func (c *Client) PlayerProfile(ctx context.Context, username string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpPlayerProfile, "player/"+url.PathEscape(username), &out)
	return out, err
}

// /player/{username}/stats
func (c *Client) PlayerStats(ctx context.Context, username string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpPlayerStats, fmt.Sprintf("player/%s/stats", url.PathEscape(username)), &out)
	return out, err
}

// /player/{username}/is-online
func (c *Client) PlayerOnline(ctx context.Context, username string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpPlayerOnline, fmt.Sprintf("player/%s/is-online", url.PathEscape(username)), &out)
	return out, err
}

// /player/{username}/games
func (c *Client) PlayerCurrentGames(ctx context.Context, username string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpPlayerCurrentGames, fmt.Sprintf("player/%s/games", url.PathEscape(username)), &out)
	return out, err
}

// /player/{username}/games/{YYYY}/{MM}
func (c *Client) GamesByMonth(ctx context.Context, username string, year, month int) ([]any, error) {
	var resp struct {
		Games []any `json:"games"`
	}
	if err := c.FetchJSON(ctx, OpGamesByMonth, monthPath(username, year, month), &resp); err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// /player/{username}/games/archives
func (c *Client) GameArchives(ctx context.Context, username string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpGameArchives, fmt.Sprintf("player/%s/games/archives", url.PathEscape(username)), &out)
	return out, err
}

// /titled/{title}
func (c *Client) TitledPlayers(ctx context.Context, title string) ([]any, error) {
	var resp struct {
		Players []any `json:"players"`
	}
	if err := c.FetchJSON(ctx, OpTitledPlayers, "titled/"+url.PathEscape(title), &resp); err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// /club/{url_id}
func (c *Client) ClubProfile(ctx context.Context, urlID string) (any, error) {
	var out any
	err := c.FetchJSON(ctx, OpClubProfile, "club/"+url.PathEscape(urlID), &out)
	return out, err
}

// ClubMembersPath is the request path for a club's member list.
func ClubMembersPath(urlID string) string {
	return fmt.Sprintf("club/%s/members", url.PathEscape(urlID))
}

// /club/{url_id}/members
//
// The body is returned undecoded; its shape varies and is resolved by the caller.
func (c *Client) ClubMembers(ctx context.Context, urlID string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.FetchJSON(ctx, OpClubMembers, ClubMembersPath(urlID), &out)
	return out, err
}

// /player/{username}/games/{YYYY}/{MM}/pgn
func (c *Client) GamesPGN(ctx context.Context, username string, year, month int) (string, error) {
	return c.FetchText(ctx, OpGamesPGN, monthPath(username, year, month)+"/pgn", AcceptPGN)
}
