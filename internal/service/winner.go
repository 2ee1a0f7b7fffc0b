package service

import (
	"sort"

	"chor_police/internal/models"
)

// leaderboardEntries 把玩家列表轉成排行榜，分數由高到低
// 同分時依名字排序，只是為了讓結果可重現，沒有遊戲意義
func leaderboardEntries(players []models.Player) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, models.LeaderboardEntry{
			ID:    p.ID,
			Name:  p.Name,
			Score: p.Score,
			Role:  p.Role,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// ComputeWinner 排序房間內玩家並找出最高分的所有玩家，完全支援平手
func ComputeWinner(players []models.Player) (winners, leaderboard []models.LeaderboardEntry) {
	leaderboard = leaderboardEntries(players)
	if len(leaderboard) == 0 {
		return nil, leaderboard
	}

	topScore := leaderboard[0].Score
	for _, entry := range leaderboard {
		if entry.Score == topScore {
			winners = append(winners, entry)
		}
	}
	return winners, leaderboard
}
