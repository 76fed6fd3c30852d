package preference

import (
	"context"
	"strconv"

	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// HintPrefix namespaces the team to league hints.
const HintPrefix = "football_team_league_"

// TeamLeagueHints remembers the league a team was last found in. Failures
// are logged and otherwise ignored; a missing hint only costs a scan.
type TeamLeagueHints struct {
	backend cache.Backend
	logger  *logging.Logger
}

func NewTeamLeagueHints(backend cache.Backend, logger *logging.Logger) *TeamLeagueHints {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamLeagueHints{backend: backend, logger: logger.Named("hints")}
}

func (h *TeamLeagueHints) TeamLeague(ctx context.Context, teamID int) (int, bool) {
	raw, ok, err := h.backend.Get(ctx, hintKey(teamID))
	if err != nil {
		h.logger.WarnContext(ctx, "read team league hint failed", "team_id", teamID, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	leagueID, err := strconv.Atoi(string(raw))
	if err != nil || leagueID <= 0 {
		return 0, false
	}
	return leagueID, true
}

func (h *TeamLeagueHints) SetTeamLeague(ctx context.Context, teamID, leagueID int) {
	if teamID <= 0 || leagueID <= 0 {
		return
	}
	if err := h.backend.Put(ctx, hintKey(teamID), []byte(strconv.Itoa(leagueID))); err != nil {
		h.logger.WarnContext(ctx, "write team league hint failed", "team_id", teamID, "error", err)
	}
}

// Reset forgets every hint.
func (h *TeamLeagueHints) Reset(ctx context.Context) error {
	return h.backend.DeletePrefix(ctx, HintPrefix)
}

func hintKey(teamID int) string {
	return HintPrefix + strconv.Itoa(teamID)
}
