package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 表示一個遊戲房間
type Room struct {
	gorm.Model
	RoomCode           string     `gorm:"uniqueIndex;not null;size:6" json:"room_code"` // 6 位加入代碼，必須唯一
	HostID             uint       `gorm:"index" json:"host_id"`
	TotalRounds        int        `json:"total_rounds"`
	CurrentRound       int        `json:"current_round"` // 0 表示還在大廳等待
	GameStatus         GameStatus `gorm:"index" json:"game_status"`
	CurrentInstruction string     `json:"current_instruction"` // 空字串表示尚未指派
	ExpiresAt          time.Time  `gorm:"index" json:"expires_at"`
}

// GameStatus 定義遊戲狀態的類型
type GameStatus string

const (
	GameStatusWaiting    GameStatus = "waiting"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinished   GameStatus = "finished"
)

// 回合指令，公開告知所有玩家這回合要找的目標角色
const (
	InstructionFindChor  = "Find Chor"
	InstructionFindDakat = "Find Dakat"
)
