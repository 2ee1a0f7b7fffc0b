package models

// GameEvent 代表透過 WebSocket 推送給客戶端的具名事件
type GameEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// 事件名稱，與前端約定的協議
const (
	EventGameStarted       = "gameStarted"
	EventRoundStarted      = "roundStarted"
	EventYourRole          = "yourRole"
	EventPoliceInstruction = "policeInstruction"
	EventRoundResult       = "roundResult"
	EventLeaderboard       = "leaderboard"
	EventRevealRoles       = "revealRoles"
	EventGameFinished      = "gameFinished"
	EventGameWinner        = "gameWinner"
	EventError             = "error"
)

// PlayerBrief 事件中用來標示某位玩家的最小資訊
type PlayerBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GameStartedPayload 遊戲開始事件的內容
type GameStartedPayload struct {
	RoomID       uint `json:"room_id"`
	CurrentRound int  `json:"current_round"`
	TotalRounds  int  `json:"total_rounds"`
}

// RoundStartedPayload 回合開始事件的內容
// 國王與警察是公開身份，小偷與大盜保持秘密
type RoundStartedPayload struct {
	RoundNumber int          `json:"round_number"`
	Instruction string       `json:"instruction"`
	Time        int          `json:"time"` // 倒數秒數
	King        *PlayerBrief `json:"king"`
	Police      *PlayerBrief `json:"police"`
}

// YourRolePayload 私下告知玩家自己本回合的角色
type YourRolePayload struct {
	Role Role `json:"role"`
}

// PoliceInstructionPayload 私下再次告知警察本回合的指令
type PoliceInstructionPayload struct {
	Instruction string `json:"instruction"`
}

// RoundResultPayload 回合結算事件的內容
type RoundResultPayload struct {
	IsCorrect    bool          `json:"is_correct"`
	Message      string        `json:"message"`
	PlayerScores []PlayerScore `json:"player_scores"`
	TargetRole   Role          `json:"target_role"`
}

// LeaderboardEntry 排行榜中的一列，依分數由高到低排序
type LeaderboardEntry struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Role  Role   `json:"role,omitempty"`
}

// RoleReveal 回合結束後公開的單一玩家角色
type RoleReveal struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// GameWinnerPayload 遊戲結束後的勝者公告，平手時 Winners 會有多位
type GameWinnerPayload struct {
	Winners     []LeaderboardEntry `json:"winners"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// ErrorPayload 錯誤事件的內容
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewErrorEvent 建立一個帶有說明文字的錯誤事件
func NewErrorEvent(message string) *GameEvent {
	return &GameEvent{
		Type:    EventError,
		Payload: ErrorPayload{Message: message},
	}
}
