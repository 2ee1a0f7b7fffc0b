package repository

import (
	"chor_police/internal/models"
	"chor_police/internal/storage"
)

type PlayerRepository interface {
	Create(player *models.Player) error
	FindByID(id uint) (*models.Player, error)
	FindByRoomID(roomID uint) ([]models.Player, error)
	CountByRoomID(roomID uint) (int64, error)
	Update(player *models.Player) error
	ResetByRoomID(roomID uint) error
}

type playerRepository struct {
	db *storage.PostgresDB
}

func NewPlayerRepository(db *storage.PostgresDB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *playerRepository) FindByID(id uint) (*models.Player, error) {
	var player models.Player
	err := r.db.First(&player, id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// FindByRoomID 依加入順序查詢房間內的所有玩家
func (r *playerRepository) FindByRoomID(roomID uint) ([]models.Player, error) {
	var players []models.Player
	err := r.db.Where("room_id = ?", roomID).Order("created_at asc").Find(&players).Error
	return players, err
}

func (r *playerRepository) CountByRoomID(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Player{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *playerRepository) Update(player *models.Player) error {
	return r.db.Save(player).Error
}

// ResetByRoomID 清空房間內所有玩家的角色與分數，回到大廳狀態時使用
func (r *playerRepository) ResetByRoomID(roomID uint) error {
	return r.db.Model(&models.Player{}).Where("room_id = ?", roomID).
		Updates(map[string]interface{}{"role": "", "score": 0}).Error
}
