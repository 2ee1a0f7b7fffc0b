package service

import (
	"log"

	"chor_police/internal/repository"
)

type Services struct {
	RoomService      *RoomService
	GameService      *GameService
	WebSocketManager *WebSocketManager
}

func NewServices(repos *repository.Repositories, cfg GameConfig) *Services {
	wsManager := NewWebSocketManager()

	roomService := NewRoomService(repos.Room, repos.Player, repos.Round)
	gameService := NewGameService(repos.Room, repos.Player, repos.Round, wsManager, cfg)

	// 把 WebSocket 收到的猜測訊息接到遊戲引擎
	wsManager.GuessHandler = func(roomID, playerID, guessedUserID uint) {
		if err := gameService.HandleGuess(roomID, playerID, guessedUserID); err != nil {
			log.Printf("guess rejected: room=%d player=%d: %v", roomID, playerID, err)
		}
	}

	return &Services{
		RoomService:      roomService,
		GameService:      gameService,
		WebSocketManager: wsManager,
	}
}
