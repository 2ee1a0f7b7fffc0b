package models

import (
	"time"

	"gorm.io/gorm"
)

// Round 表示一回合結束後寫入的歷史紀錄，建立後不再修改
type Round struct {
	gorm.Model
	RoomID        uint   `gorm:"uniqueIndex:idx_room_round" json:"room_id"`
	RoundNumber   int    `gorm:"uniqueIndex:idx_room_round" json:"round_number"`
	Instruction   string `json:"instruction"`
	PoliceID      uint   `json:"police_id"`
	GuessedUserID *uint  `json:"guessed_user_id"` // nil 表示時間內沒有猜測
	TargetRole    Role   `json:"target_role"`
	IsCorrect     bool   `json:"is_correct"`

	// 本回合的角色分配快照
	KingID  uint `json:"king_id"`
	ChorID  uint `json:"chor_id"`
	DakatID uint `json:"dakat_id"`

	// 本回合每位玩家獲得的分數，JSON 序列化的 PlayerScore 列表
	PlayerScores string    `gorm:"type:jsonb" json:"player_scores"`
	GuessedAt    time.Time `json:"guessed_at"`
}

// PlayerScore 表示單一玩家在某回合獲得的分數
type PlayerScore struct {
	UserID uint `json:"user_id"`
	Points int  `json:"points"`
}
