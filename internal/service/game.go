package service

import (
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"chor_police/internal/models"
	"chor_police/internal/repository"
)

// Broadcaster 抽象出事件推送能力，讓遊戲引擎不直接依賴 WebSocket
type Broadcaster interface {
	BroadcastToRoom(roomID uint, event *models.GameEvent)
	SendToPlayer(playerID uint, event *models.GameEvent) bool
}

// GameConfig 遊戲引擎的時間與計分參數
type GameConfig struct {
	RoundDuration time.Duration // 警察猜測的倒數時間
	Intermission  time.Duration // 回合結束到下一回合開始的固定間隔
	Scores        ScoreTable
}

// DefaultGameConfig 回傳預設參數：15 秒倒數、5 秒間隔
func DefaultGameConfig() GameConfig {
	return GameConfig{
		RoundDuration: 15 * time.Second,
		Intermission:  5 * time.Second,
		Scores:        DefaultScoreTable(),
	}
}

const maxTotalRounds = 40

// roundState 單一房間進行中回合的記憶體狀態
// resolved 是猜測與逾時兩條路徑之間唯一的同步點，先搶到的人結算回合
type roundState struct {
	roundNumber int
	policeID    uint
	instruction string
	timer       *time.Timer
	resolved    bool
}

// roomRuntime 房間的執行期狀態，mu 串行化同一房間的所有操作
// 不同房間各自獨立，可以並行
type roomRuntime struct {
	mu    sync.Mutex
	state *roundState // nil 表示目前沒有進行中的回合
}

// GameService 驅動每個房間的回合流程：
// 分配角色、啟動倒數、接收猜測、結算分數、推進回合直到決出勝者
type GameService struct {
	roomRepo    repository.RoomRepository
	playerRepo  repository.PlayerRepository
	roundRepo   repository.RoundRepository
	broadcaster Broadcaster
	cfg         GameConfig

	mu    sync.Mutex
	rooms map[uint]*roomRuntime
}

func NewGameService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository,
	roundRepo repository.RoundRepository, broadcaster Broadcaster, cfg GameConfig) *GameService {
	return &GameService{
		roomRepo:    roomRepo,
		playerRepo:  playerRepo,
		roundRepo:   roundRepo,
		broadcaster: broadcaster,
		cfg:         cfg,
		rooms:       make(map[uint]*roomRuntime),
	}
}

// runtime 取得房間的執行期狀態，沒有就建立
func (s *GameService) runtime(roomID uint) *roomRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()

	rt, ok := s.rooms[roomID]
	if !ok {
		rt = &roomRuntime{}
		s.rooms[roomID] = rt
	}
	return rt
}

// StartGame 開始遊戲，每個房間只會被外部呼叫一次
// 任何前置條件不符都直接回傳錯誤，不改動任何狀態
func (s *GameService) StartGame(roomID uint, totalRounds int) error {
	rt := s.runtime(roomID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return errors.New("房間不存在")
	}
	if room.GameStatus != models.GameStatusWaiting {
		return errors.New("遊戲已經開始或已結束")
	}
	if totalRounds < 1 || totalRounds > maxTotalRounds {
		return errors.New("無效的回合數")
	}

	count, err := s.playerRepo.CountByRoomID(roomID)
	if err != nil {
		return err
	}
	if count != 4 {
		return errors.New("需要剛好 4 位玩家才能開始遊戲")
	}

	room.GameStatus = models.GameStatusInProgress
	room.TotalRounds = totalRounds
	room.CurrentRound = 1
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	s.broadcaster.BroadcastToRoom(roomID, &models.GameEvent{
		Type: models.EventGameStarted,
		Payload: models.GameStartedPayload{
			RoomID:       roomID,
			CurrentRound: room.CurrentRound,
			TotalRounds:  room.TotalRounds,
		},
	})

	s.startRoundLocked(rt, roomID)
	return nil
}

// StartRound 開始一個新回合，重複呼叫不會有副作用
func (s *GameService) StartRound(roomID uint) {
	rt := s.runtime(roomID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s.startRoundLocked(rt, roomID)
}

// startRoundLocked 回合啟動的實際流程，呼叫時必須持有 rt.mu
func (s *GameService) startRoundLocked(rt *roomRuntime, roomID uint) {
	// 已經有進行中的回合就不重複啟動
	if rt.state != nil {
		return
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil || room.GameStatus != models.GameStatusInProgress {
		// 房間可能已被外部結束或刪除，安靜退出
		return
	}

	if room.CurrentRound > room.TotalRounds {
		s.finishGameLocked(room)
		return
	}

	players, err := s.playerRepo.FindByRoomID(roomID)
	if err != nil {
		log.Printf("startRound: load players failed: %v", err)
		return
	}
	if len(players) != 4 {
		// 人數不足時房間停在原地，不往下推進
		s.broadcaster.BroadcastToRoom(roomID, models.NewErrorEvent("需要 4 位玩家才能繼續遊戲"))
		return
	}

	// 洗牌分配四個固定角色，Fisher-Yates 保證均勻
	roles := models.AllRoles()
	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
	for i := range players {
		players[i].Role = roles[i]
		if err := s.playerRepo.Update(&players[i]); err != nil {
			log.Printf("startRound: persist role failed: %v", err)
			return
		}
	}

	// 角色只私下傳給本人，絕不廣播
	for _, p := range players {
		s.broadcaster.SendToPlayer(p.ID, &models.GameEvent{
			Type:    models.EventYourRole,
			Payload: models.YourRolePayload{Role: p.Role},
		})
	}

	instruction := models.InstructionFindChor
	if rand.Intn(2) == 1 {
		instruction = models.InstructionFindDakat
	}
	room.CurrentInstruction = instruction
	if err := s.roomRepo.Update(room); err != nil {
		log.Printf("startRound: persist instruction failed: %v", err)
		return
	}

	var king, police *models.Player
	for i := range players {
		switch players[i].Role {
		case models.RoleKing:
			king = &players[i]
		case models.RolePolice:
			police = &players[i]
		}
	}

	// 國王與警察是公開身份，秘密角色不出現在這個事件裡
	s.broadcaster.BroadcastToRoom(roomID, &models.GameEvent{
		Type: models.EventRoundStarted,
		Payload: models.RoundStartedPayload{
			RoundNumber: room.CurrentRound,
			Instruction: instruction,
			Time:        int(s.cfg.RoundDuration / time.Second),
			King:        &models.PlayerBrief{ID: king.ID, Name: king.Name},
			Police:      &models.PlayerBrief{ID: police.ID, Name: police.Name},
		},
	})

	// 指令再私下傳給警察一次，前端協議保留的重複傳送
	s.broadcaster.SendToPlayer(police.ID, &models.GameEvent{
		Type:    models.EventPoliceInstruction,
		Payload: models.PoliceInstructionPayload{Instruction: instruction},
	})

	st := &roundState{
		roundNumber: room.CurrentRound,
		policeID:    police.ID,
		instruction: instruction,
	}
	rt.state = st

	st.timer = time.AfterFunc(s.cfg.RoundDuration, func() {
		s.FinalizeRoundAsNoGuess(roomID)
	})
}

// HandleGuess 處理警察的猜測，每回合唯一的外部輸入事件
// 被拒絕的猜測會私下回覆錯誤事件，不改動任何狀態
func (s *GameService) HandleGuess(roomID, policeID, guessedUserID uint) error {
	rt := s.runtime(roomID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	st := rt.state
	if st == nil || st.resolved {
		s.broadcaster.SendToPlayer(policeID, models.NewErrorEvent("這一回合已經結束"))
		return errors.New("這一回合已經結束")
	}
	if st.policeID != policeID {
		s.broadcaster.SendToPlayer(policeID, models.NewErrorEvent("你不是這回合的警察"))
		return errors.New("你不是這回合的警察")
	}

	// 搶先逾時路徑設下 resolved，之後的逾時回呼會直接返回
	st.resolved = true
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		rt.state = nil
		return errors.New("房間不存在")
	}

	players, err := s.playerRepo.FindByRoomID(roomID)
	if err != nil {
		return err
	}

	target := targetRoleOf(st.instruction)
	var guessed *models.Player
	for i := range players {
		if players[i].ID == guessedUserID {
			guessed = &players[i]
			break
		}
	}

	isCorrect := guessed != nil && guessed.Role == target

	var points map[uint]int
	var message string
	if isCorrect {
		points = s.cfg.Scores.CorrectGuessPoints(players, guessedUserID)
		message = "警察抓對了"
	} else {
		points = s.cfg.Scores.NoGuessPoints(players)
		message = "警察猜錯了"
	}

	guessedID := guessedUserID
	s.resolveRoundLocked(rt, room, st, players, points, &guessedID, isCorrect, message)
	return nil
}

// FinalizeRoundAsNoGuess 倒數結束仍沒有猜測時的回合結算
// 如果回合已被猜測搶先結算，這裡什麼都不做
func (s *GameService) FinalizeRoundAsNoGuess(roomID uint) {
	rt := s.runtime(roomID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	st := rt.state
	if st == nil || st.resolved {
		return
	}
	st.resolved = true
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		rt.state = nil
		return
	}

	players, err := s.playerRepo.FindByRoomID(roomID)
	if err != nil {
		log.Printf("finalizeRound: load players failed: %v", err)
		return
	}

	points := s.cfg.Scores.NoGuessPoints(players)
	s.resolveRoundLocked(rt, room, st, players, points, nil, false, "時間內沒有人被指認")
}

// resolveRoundLocked 猜測與逾時共用的結算流程，呼叫時必須持有 rt.mu
// 分數先全部寫入，之後的廣播才看得到更新後的排行榜
func (s *GameService) resolveRoundLocked(rt *roomRuntime, room *models.Room, st *roundState,
	players []models.Player, points map[uint]int, guessedUserID *uint, isCorrect bool, message string) {

	playerScores := make([]models.PlayerScore, 0, len(players))
	for i := range players {
		pts := points[players[i].ID]
		players[i].Score += pts
		if err := s.playerRepo.Update(&players[i]); err != nil {
			log.Printf("resolveRound: persist score failed: %v", err)
		}
		playerScores = append(playerScores, models.PlayerScore{
			UserID: players[i].ID,
			Points: pts,
		})
	}

	var kingID, chorID, dakatID uint
	for _, p := range players {
		switch p.Role {
		case models.RoleKing:
			kingID = p.ID
		case models.RoleChor:
			chorID = p.ID
		case models.RoleDakat:
			dakatID = p.ID
		}
	}

	scoresJSON, err := json.Marshal(playerScores)
	if err != nil {
		log.Printf("resolveRound: marshal scores failed: %v", err)
	}

	record := &models.Round{
		RoomID:        room.ID,
		RoundNumber:   st.roundNumber,
		Instruction:   st.instruction,
		PoliceID:      st.policeID,
		GuessedUserID: guessedUserID,
		TargetRole:    targetRoleOf(st.instruction),
		IsCorrect:     isCorrect,
		KingID:        kingID,
		ChorID:        chorID,
		DakatID:       dakatID,
		PlayerScores:  string(scoresJSON),
		GuessedAt:     time.Now(),
	}
	if err := s.roundRepo.Create(record); err != nil {
		log.Printf("resolveRound: persist round record failed: %v", err)
	}

	s.broadcaster.BroadcastToRoom(room.ID, &models.GameEvent{
		Type: models.EventRoundResult,
		Payload: models.RoundResultPayload{
			IsCorrect:    isCorrect,
			Message:      message,
			PlayerScores: playerScores,
			TargetRole:   targetRoleOf(st.instruction),
		},
	})

	s.broadcaster.BroadcastToRoom(room.ID, &models.GameEvent{
		Type:    models.EventLeaderboard,
		Payload: leaderboardEntries(players),
	})

	// 回合已結束，現在公開所有角色
	reveals := make([]models.RoleReveal, 0, len(players))
	for _, p := range players {
		reveals = append(reveals, models.RoleReveal{Name: p.Name, Role: p.Role})
	}
	s.broadcaster.BroadcastToRoom(room.ID, &models.GameEvent{
		Type:    models.EventRevealRoles,
		Payload: reveals,
	})

	// 固定間隔後推進下一回合，給前端展示結果的時間
	time.AfterFunc(s.cfg.Intermission, func() {
		s.AdvanceRound(room.ID)
	})
}

// AdvanceRound 推進到下一回合，或在回合數用完時結束遊戲
func (s *GameService) AdvanceRound(roomID uint) {
	rt := s.runtime(roomID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.state = nil

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		// 房間在間隔期間被清掉了，安靜退出
		return
	}
	if room.GameStatus != models.GameStatusInProgress {
		// 房間已被外部結束，不再推進
		return
	}

	room.CurrentRound++
	if err := s.roomRepo.Update(room); err != nil {
		log.Printf("advanceRound: persist failed: %v", err)
		return
	}

	if room.CurrentRound > room.TotalRounds {
		s.finishGameLocked(room)
		return
	}

	s.startRoundLocked(rt, roomID)
}

// finishGameLocked 結束遊戲並公告勝者，呼叫時必須持有 rt.mu
// 可以被 startRound 與 advanceRound 兩條路徑安全地重複呼叫：
// 除了狀態翻轉之外只讀取和廣播，不會重複計分
func (s *GameService) finishGameLocked(room *models.Room) {
	if room.GameStatus != models.GameStatusFinished {
		room.GameStatus = models.GameStatusFinished
		room.CurrentInstruction = ""
		if err := s.roomRepo.Update(room); err != nil {
			log.Printf("finishGame: persist failed: %v", err)
		}
	}

	s.broadcaster.BroadcastToRoom(room.ID, &models.GameEvent{Type: models.EventGameFinished})

	players, err := s.playerRepo.FindByRoomID(room.ID)
	if err != nil {
		log.Printf("finishGame: load players failed: %v", err)
		return
	}

	winners, leaderboard := ComputeWinner(players)
	s.broadcaster.BroadcastToRoom(room.ID, &models.GameEvent{
		Type: models.EventGameWinner,
		Payload: models.GameWinnerPayload{
			Winners:     winners,
			Leaderboard: leaderboard,
		},
	})
}
