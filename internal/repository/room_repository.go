package repository

import (
	"chor_police/internal/models"
	"chor_police/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	FindByCode(code string) (*models.Room, error)
	Update(room *models.Room) error
	Delete(id uint) error
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByCode 用加入代碼查詢房間
func (r *roomRepository) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	err := r.db.Where("room_code = ?", code).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

func (r *roomRepository) Delete(id uint) error {
	return r.db.Delete(&models.Room{}, id).Error
}
