package repository

import (
	"chor_police/internal/models"
	"chor_police/internal/storage"
)

type RoundRepository interface {
	Create(round *models.Round) error
	FindByRoomID(roomID uint) ([]models.Round, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *models.Round) error {
	return r.db.Create(round).Error
}

// FindByRoomID 依回合順序查詢房間的歷史紀錄
func (r *roundRepository) FindByRoomID(roomID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.Where("room_id = ?", roomID).Order("round_number asc").Find(&rounds).Error
	return rounds, err
}
