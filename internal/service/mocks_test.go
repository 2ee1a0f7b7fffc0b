package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"chor_police/internal/models"
)

// --- 記憶體版的 repositories，測試引擎時不需要真的資料庫 ---

type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[uint]models.Room
	nextID uint

	createFailures int // 讓前幾次 Create 失敗，用來測試代碼碰撞重試
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[uint]models.Room)}
}

func (r *fakeRoomRepo) Create(room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createFailures > 0 {
		r.createFailures--
		return errors.New("duplicate key value violates unique constraint")
	}
	for _, existing := range r.rooms {
		if existing.RoomCode == room.RoomCode {
			return errors.New("duplicate key value violates unique constraint")
		}
	}

	r.nextID++
	room.ID = r.nextID
	r.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) FindByID(id uint) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	// 回傳副本，模擬每次查詢都是資料庫快照
	copied := room
	return &copied, nil
}

func (r *fakeRoomRepo) FindByCode(code string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, room := range r.rooms {
		if room.RoomCode == code {
			copied := room
			return &copied, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeRoomRepo) Update(room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; !ok {
		return errors.New("record not found")
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, id)
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[uint]models.Player
	nextID  uint
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[uint]models.Player)}
}

func (r *fakePlayerRepo) Create(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	player.ID = r.nextID
	r.players[player.ID] = *player
	return nil
}

func (r *fakePlayerRepo) FindByID(id uint) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := player
	return &copied, nil
}

func (r *fakePlayerRepo) FindByRoomID(roomID uint) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// ID 遞增等同加入順序
	var result []models.Player
	for id := uint(1); id <= r.nextID; id++ {
		p, ok := r.players[id]
		if ok && p.RoomID != nil && *p.RoomID == roomID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePlayerRepo) CountByRoomID(roomID uint) (int64, error) {
	players, _ := r.FindByRoomID(roomID)
	return int64(len(players)), nil
}

func (r *fakePlayerRepo) Update(player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[player.ID]; !ok {
		return errors.New("record not found")
	}
	r.players[player.ID] = *player
	return nil
}

func (r *fakePlayerRepo) ResetByRoomID(roomID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.players {
		if p.RoomID != nil && *p.RoomID == roomID {
			p.Role = ""
			p.Score = 0
			r.players[id] = p
		}
	}
	return nil
}

type fakeRoundRepo struct {
	mu     sync.Mutex
	rounds []models.Round
	nextID uint
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{}
}

func (r *fakeRoundRepo) Create(round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// (roomID, roundNumber) 唯一，和資料庫的複合索引一致
	for _, existing := range r.rounds {
		if existing.RoomID == round.RoomID && existing.RoundNumber == round.RoundNumber {
			return errors.New("duplicate key value violates unique constraint")
		}
	}

	r.nextID++
	round.ID = r.nextID
	r.rounds = append(r.rounds, *round)
	return nil
}

func (r *fakeRoundRepo) FindByRoomID(roomID uint) ([]models.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.Round
	for _, round := range r.rounds {
		if round.RoomID == roomID {
			result = append(result, round)
		}
	}
	return result, nil
}

// --- 記錄所有事件的 Broadcaster ---

type fakeBroadcaster struct {
	mu           sync.Mutex
	roomEvents   map[uint][]models.GameEvent
	playerEvents map[uint][]models.GameEvent
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{
		roomEvents:   make(map[uint][]models.GameEvent),
		playerEvents: make(map[uint][]models.GameEvent),
	}
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID uint, event *models.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roomEvents[roomID] = append(b.roomEvents[roomID], *event)
}

func (b *fakeBroadcaster) SendToPlayer(playerID uint, event *models.GameEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playerEvents[playerID] = append(b.playerEvents[playerID], *event)
	return true
}

func (b *fakeBroadcaster) RoomEvents(roomID uint) []models.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.GameEvent(nil), b.roomEvents[roomID]...)
}

func (b *fakeBroadcaster) PlayerEvents(playerID uint) []models.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.GameEvent(nil), b.playerEvents[playerID]...)
}

func (b *fakeBroadcaster) countRoomEvents(roomID uint, eventType string) int {
	count := 0
	for _, ev := range b.RoomEvents(roomID) {
		if ev.Type == eventType {
			count++
		}
	}
	return count
}

// --- 共用的測試環境 ---

type gameEnv struct {
	roomRepo   *fakeRoomRepo
	playerRepo *fakePlayerRepo
	roundRepo  *fakeRoundRepo
	bc         *fakeBroadcaster
	game       *GameService
	room       *models.Room
	playerIDs  []uint
}

// newGameEnv 建一個等待中的房間與 4 位玩家
func newGameEnv(t *testing.T, cfg GameConfig) *gameEnv {
	t.Helper()

	roomRepo := newFakeRoomRepo()
	playerRepo := newFakePlayerRepo()
	roundRepo := newFakeRoundRepo()
	bc := newFakeBroadcaster()

	room := &models.Room{
		RoomCode:   "ABC234",
		GameStatus: models.GameStatusWaiting,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := roomRepo.Create(room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	var ids []uint
	for _, name := range []string{"Asha", "Bikram", "Chitra", "Deep"} {
		p := &models.Player{Name: name, RoomID: &room.ID}
		if err := playerRepo.Create(p); err != nil {
			t.Fatalf("create player: %v", err)
		}
		ids = append(ids, p.ID)
	}
	room.HostID = ids[0]
	if err := roomRepo.Update(room); err != nil {
		t.Fatalf("update room: %v", err)
	}

	game := NewGameService(roomRepo, playerRepo, roundRepo, bc, cfg)

	return &gameEnv{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		roundRepo:  roundRepo,
		bc:         bc,
		game:       game,
		room:       room,
		playerIDs:  ids,
	}
}

// playerByRole 查出目前持有某個角色的玩家
func (e *gameEnv) playerByRole(t *testing.T, role models.Role) *models.Player {
	t.Helper()

	players, err := e.playerRepo.FindByRoomID(e.room.ID)
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	for i := range players {
		if players[i].Role == role {
			return &players[i]
		}
	}
	t.Fatalf("no player holds role %s", role)
	return nil
}

// currentRoom 重新讀取房間狀態
func (e *gameEnv) currentRoom(t *testing.T) *models.Room {
	t.Helper()

	room, err := e.roomRepo.FindByID(e.room.ID)
	if err != nil {
		t.Fatalf("load room: %v", err)
	}
	return room
}

// waitFor 輪詢直到條件成立，逾時就讓測試失敗
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// fastConfig 用很短的時間參數跑完整個遊戲流程
func fastConfig() GameConfig {
	return GameConfig{
		RoundDuration: 40 * time.Millisecond,
		Intermission:  15 * time.Millisecond,
		Scores:        DefaultScoreTable(),
	}
}

// manualConfig 倒數設成很長，回合只能由測試主動結算
func manualConfig() GameConfig {
	return GameConfig{
		RoundDuration: time.Hour,
		Intermission:  15 * time.Millisecond,
		Scores:        DefaultScoreTable(),
	}
}
