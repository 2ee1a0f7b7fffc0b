package repository

import "chor_police/internal/storage"

type Repositories struct {
	Room   RoomRepository
	Player PlayerRepository
	Round  RoundRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Room:   NewRoomRepository(db),
		Player: NewPlayerRepository(db),
		Round:  NewRoundRepository(db),
	}
}
