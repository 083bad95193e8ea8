package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/iasiv5/a-share-analyst/internal/datasource"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// BoardLeader couples a hot board with its strongest members.
type BoardLeader struct {
	Board   model.BoardQuote `json:"board"`
	Members []model.Quote    `json:"members"`
}

// TopBoardLeaders picks the strongest boards by change percent and
// fetches each board's top members through src. Suspended members with
// NaN changes sort last and fall off.
func TopBoardLeaders(ctx context.Context, src datasource.Source, boards []model.BoardQuote, topBoards, perBoard int) ([]BoardLeader, error) {
	sorted := make([]model.BoardQuote, len(boards))
	copy(sorted, boards)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].ChangePct > sorted[b].ChangePct
	})
	if topBoards > 0 && len(sorted) > topBoards {
		sorted = sorted[:topBoards]
	}

	leaders := make([]BoardLeader, 0, len(sorted))
	for _, board := range sorted {
		members, err := src.BoardMembers(ctx, board.Code)
		if err != nil {
			return nil, fmt.Errorf("members of board %s: %w", board.Code, err)
		}

		sort.SliceStable(members, func(a, b int) bool {
			x, y := members[a].ChangePct, members[b].ChangePct
			if math.IsNaN(y) {
				return !math.IsNaN(x)
			}
			if math.IsNaN(x) {
				return false
			}
			return x > y
		})
		if perBoard > 0 && len(members) > perBoard {
			members = members[:perBoard]
		}

		leaders = append(leaders, BoardLeader{Board: board, Members: members})
	}
	return leaders, nil
}
