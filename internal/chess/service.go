// Package chess maps tool operations onto the public Chess.com API and
// shapes list-valued responses into cursor-paginated pages.
package chess

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"chess-mcp/internal/fetch"
	"chess-mcp/internal/pagination"
)

// Page-size defaults and upper bounds per list operation.
const (
	DefaultGamesPageSize   = pagination.DefaultPageSize
	MaxGamesPageSize       = 200
	DefaultPlayersPageSize = 100
	MaxPlayersPageSize     = 500
	DefaultMembersPageSize = 100
	MaxMembersPageSize     = 500
)

// Titles accepted by TitledPlayers, in the order they are reported.
var Titles = []string{"GM", "WGM", "IM", "WIM", "FM", "WFM", "NM", "WNM", "CM", "WCM"}

// PageRequest carries the optional paging arguments of a list operation.
// A nil PageSize means the operation default.
type PageRequest struct {
	PageSize *int
	Cursor   string
}

// GamesPage is one page of a month of games.
type GamesPage struct {
	Games      []any           `json:"games"`
	Pagination pagination.Info `json:"pagination"`
}

// PlayersPage is one page of titled player usernames.
type PlayersPage struct {
	Players    []any           `json:"players"`
	Pagination pagination.Info `json:"pagination"`
}

// MembersPage is one page of club members.
type MembersPage struct {
	Members    []any           `json:"members"`
	Pagination pagination.Info `json:"pagination"`
}

// Service issues exactly one upstream GET per call. It holds no mutable
// state, so concurrent calls are independent.
type Service struct {
	api *fetch.Client
	log *zap.Logger
}

// NewService wraps api; a nil logger discards output.
func NewService(api *fetch.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, log: logger}
}

func (s *Service) PlayerProfile(ctx context.Context, username string) (any, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	return s.api.PlayerProfile(ctx, username)
}

func (s *Service) PlayerStats(ctx context.Context, username string) (any, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	return s.api.PlayerStats(ctx, username)
}

func (s *Service) PlayerOnline(ctx context.Context, username string) (any, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	return s.api.PlayerOnline(ctx, username)
}

func (s *Service) PlayerCurrentGames(ctx context.Context, username string) (any, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	return s.api.PlayerCurrentGames(ctx, username)
}

func (s *Service) GameArchives(ctx context.Context, username string) (any, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	return s.api.GameArchives(ctx, username)
}

// GamesByMonth returns one page of a player's finished games for a month.
func (s *Service) GamesByMonth(ctx context.Context, username string, year, month int, page PageRequest) (*GamesPage, error) {
	if err := requireUsername(username); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	size := pageSize(page.PageSize, DefaultGamesPageSize, MaxGamesPageSize)

	games, err := s.api.GamesByMonth(ctx, username, year, month)
	if err != nil {
		return nil, err
	}
	p := pagination.Paginate(games, size, page.Cursor)
	return &GamesPage{Games: p.Data, Pagination: p.Pagination}, nil
}

// TitledPlayers returns one page of usernames holding title.
func (s *Service) TitledPlayers(ctx context.Context, title string, page PageRequest) (*PlayersPage, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	size := pageSize(page.PageSize, DefaultPlayersPageSize, MaxPlayersPageSize)

	players, err := s.api.TitledPlayers(ctx, title)
	if err != nil {
		return nil, err
	}
	p := pagination.Paginate(players, size, page.Cursor)
	return &PlayersPage{Players: p.Data, Pagination: p.Pagination}, nil
}

func (s *Service) ClubProfile(ctx context.Context, urlID string) (any, error) {
	if err := requireClub(urlID); err != nil {
		return nil, err
	}
	return s.api.ClubProfile(ctx, urlID)
}

// ClubMembers returns one page of a club's members across all activity
// buckets.
func (s *Service) ClubMembers(ctx context.Context, urlID string, page PageRequest) (*MembersPage, error) {
	if err := requireClub(urlID); err != nil {
		return nil, err
	}
	size := pageSize(page.PageSize, DefaultMembersPageSize, MaxMembersPageSize)

	raw, err := s.api.ClubMembers(ctx, urlID)
	if err != nil {
		return nil, err
	}
	payload, err := DecodeClubMembers(raw)
	if err != nil {
		return nil, &fetch.UpstreamError{Op: fetch.OpClubMembers, Path: fetch.ClubMembersPath(urlID), Err: err}
	}
	if payload.Shape == MembersUnrecognized {
		s.log.Info("club members payload has no recognized keys", zap.String("club", urlID))
	}
	p := pagination.Paginate(payload.Members(), size, page.Cursor)
	return &MembersPage{Members: p.Data, Pagination: p.Pagination}, nil
}

// DownloadPGN returns a month of games as PGN text, unparsed.
func (s *Service) DownloadPGN(ctx context.Context, username string, year, month int) (string, error) {
	if err := requireUsername(username); err != nil {
		return "", err
	}
	if err := validateMonth(month); err != nil {
		return "", err
	}
	return s.api.GamesPGN(ctx, username, year, month)
}

// ValidateTitle accepts only the abbreviations listed in Titles.
func ValidateTitle(title string) error {
	for _, t := range Titles {
		if title == t {
			return nil
		}
	}
	return invalid("title", "%q must be one of: %s", title, strings.Join(Titles, ", "))
}

func requireUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username", "username is required")
	}
	return nil
}

func requireClub(urlID string) error {
	if strings.TrimSpace(urlID) == "" {
		return invalid("url_id", "url_id is required")
	}
	return nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return invalid("month", "%d is not between 1 and 12", month)
	}
	return nil
}

func pageSize(requested *int, def, max int) int {
	n := def
	if requested != nil {
		n = *requested
	}
	return pagination.Clamp(n, 1, max)
}
