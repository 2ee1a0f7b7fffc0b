package service

import (
	"errors"
	"math/rand"
	"time"

	"chor_police/internal/models"
	"chor_police/internal/repository"
)

// 加入代碼的字元集，排除容易混淆的 0/O、1/I/L
const roomCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	roomCodeLength  = 6
	maxCodeAttempts = 6
	roomTTL         = 24 * time.Hour
)

// RoomService 處理房間的建立、加入與查詢
type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	roundRepo  repository.RoundRepository
}

func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository,
	roundRepo repository.RoundRepository) *RoomService {
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		roundRepo:  roundRepo,
	}
}

// generateRoomCode 產生一組 6 位的人類可讀加入代碼
func generateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
	}
	return string(code)
}

// CreateRoom 建立房主玩家與新房間，加入代碼碰撞時重新產生
func (s *RoomService) CreateRoom(name, avatar string) (*models.Player, *models.Room, error) {
	if name == "" {
		return nil, nil, errors.New("名字不能為空")
	}

	host := &models.Player{
		Name:   name,
		Avatar: avatar,
		IsHost: true,
	}
	if err := s.playerRepo.Create(host); err != nil {
		return nil, nil, err
	}

	var room *models.Room
	for i := 0; i < maxCodeAttempts; i++ {
		code := generateRoomCode()
		if _, err := s.roomRepo.FindByCode(code); err == nil {
			// 代碼已被使用，重新產生
			continue
		}

		candidate := &models.Room{
			RoomCode:     code,
			HostID:       host.ID,
			CurrentRound: 0,
			GameStatus:   models.GameStatusWaiting,
			ExpiresAt:    time.Now().Add(roomTTL),
		}
		if err := s.roomRepo.Create(candidate); err != nil {
			// 可能是併發下的代碼重複，換一組再試
			continue
		}
		room = candidate
		break
	}
	if room == nil {
		return nil, nil, errors.New("無法產生唯一的房間代碼")
	}

	host.RoomID = &room.ID
	if err := s.playerRepo.Update(host); err != nil {
		return nil, nil, err
	}

	return host, room, nil
}

// JoinRoom 用加入代碼加入房間，只在等待狀態且未滿 4 人時允許
func (s *RoomService) JoinRoom(code, name, avatar string) (*models.Player, *models.Room, error) {
	if name == "" || code == "" {
		return nil, nil, errors.New("名字和房間代碼不能為空")
	}

	room, err := s.roomRepo.FindByCode(code)
	if err != nil {
		return nil, nil, errors.New("房間不存在")
	}
	if room.GameStatus != models.GameStatusWaiting {
		return nil, nil, errors.New("遊戲已經開始或房間已關閉")
	}

	count, err := s.playerRepo.CountByRoomID(room.ID)
	if err != nil {
		return nil, nil, err
	}
	if count >= 4 {
		return nil, nil, errors.New("房間已滿")
	}

	player := &models.Player{
		Name:   name,
		Avatar: avatar,
		RoomID: &room.ID,
	}
	if err := s.playerRepo.Create(player); err != nil {
		return nil, nil, err
	}

	return player, room, nil
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	return s.roomRepo.FindByID(roomID)
}

func (s *RoomService) GetPlayer(playerID uint) (*models.Player, error) {
	return s.playerRepo.FindByID(playerID)
}

func (s *RoomService) GetPlayers(roomID uint) ([]models.Player, error) {
	return s.playerRepo.FindByRoomID(roomID)
}

// GetLeaderboard 查詢房間排行榜，分數由高到低
func (s *RoomService) GetLeaderboard(roomID uint) ([]models.LeaderboardEntry, error) {
	players, err := s.playerRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}
	return leaderboardEntries(players), nil
}

// GetRounds 查詢房間的回合歷史紀錄
func (s *RoomService) GetRounds(roomID uint) ([]models.Round, error) {
	return s.roundRepo.FindByRoomID(roomID)
}

// GetWinner 查詢已結束遊戲的勝者，遊戲還沒結束時回傳錯誤
func (s *RoomService) GetWinner(roomID uint) (*models.GameWinnerPayload, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, errors.New("房間不存在")
	}
	if room.GameStatus != models.GameStatusFinished {
		return nil, errors.New("遊戲尚未結束")
	}

	players, err := s.playerRepo.FindByRoomID(roomID)
	if err != nil {
		return nil, err
	}

	winners, leaderboard := ComputeWinner(players)
	return &models.GameWinnerPayload{Winners: winners, Leaderboard: leaderboard}, nil
}

// ResetGame 把已結束的房間重置回大廳，清空所有玩家的角色與分數
func (s *RoomService) ResetGame(roomID uint) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return errors.New("房間不存在")
	}
	if room.GameStatus != models.GameStatusFinished {
		return errors.New("只有已結束的遊戲可以重置")
	}

	room.GameStatus = models.GameStatusWaiting
	room.CurrentRound = 0
	room.CurrentInstruction = ""
	if err := s.roomRepo.Update(room); err != nil {
		return err
	}

	return s.playerRepo.ResetByRoomID(roomID)
}
