package service

import (
	"chor_police/internal/models"
)

// ScoreTable 定義每回合的計分常數，可由配置覆寫
type ScoreTable struct {
	King        int // 國王每回合固定獲得的分數
	PoliceCatch int // 警察抓對目標時獲得的分數
	ChorHide    int // 小偷沒被抓到時的分數
	DakatHide   int // 大盜沒被抓到時的分數
}

// DefaultScoreTable 回傳預設的計分表
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		King:        1000,
		PoliceCatch: 800,
		ChorHide:    400,
		DakatHide:   600,
	}
}

// hideReward 秘密角色成功躲藏時的分數，小偷與大盜的獎勵不對稱
func (t ScoreTable) hideReward(role models.Role) int {
	if role == models.RoleChor {
		return t.ChorHide
	}
	return t.DakatHide
}

// NoGuessPoints 計算逾時沒有猜測、或猜錯時每位玩家獲得的分數
// 猜錯與沒猜在計分上完全相同：警察沒有得到任何資訊
func (t ScoreTable) NoGuessPoints(players []models.Player) map[uint]int {
	points := make(map[uint]int, len(players))
	for _, p := range players {
		switch p.Role {
		case models.RoleKing:
			points[p.ID] = t.King
		case models.RoleChor:
			points[p.ID] = t.ChorHide
		case models.RoleDakat:
			points[p.ID] = t.DakatHide
		default:
			points[p.ID] = 0
		}
	}
	return points
}

// CorrectGuessPoints 計算警察抓對目標時每位玩家獲得的分數
// 被抓到的目標得 0 分，剩下那位沒被抓的秘密角色照躲藏分數計算
func (t ScoreTable) CorrectGuessPoints(players []models.Player, guessedUserID uint) map[uint]int {
	points := make(map[uint]int, len(players))
	for _, p := range players {
		switch {
		case p.ID == guessedUserID:
			points[p.ID] = 0
		case p.Role == models.RoleKing:
			points[p.ID] = t.King
		case p.Role == models.RolePolice:
			points[p.ID] = t.PoliceCatch
		default:
			points[p.ID] = t.hideReward(p.Role)
		}
	}
	return points
}

// targetRoleOf 由回合指令換算本回合要找的目標角色
func targetRoleOf(instruction string) models.Role {
	if instruction == models.InstructionFindChor {
		return models.RoleChor
	}
	return models.RoleDakat
}
