package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chor_police/internal/models"
)

type PostgresDB struct {
	*gorm.DB
}

func NewPostgresDB(host, user, password, dbname string, port int) (*PostgresDB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate 建立遊戲需要的所有資料表
func (db *PostgresDB) Migrate() error {
	return db.DB.AutoMigrate(&models.Room{}, &models.Player{}, &models.Round{})
}

// CleanupExpiredRooms 刪除過期的房間和裡面的玩家，交給排程定期呼叫
func (db *PostgresDB) CleanupExpiredRooms() error {
	var expired []models.Room
	if err := db.DB.Where("expires_at < ?", time.Now()).Find(&expired).Error; err != nil {
		return err
	}

	for _, room := range expired {
		if err := db.DB.Where("room_id = ?", room.ID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		if err := db.DB.Delete(&room).Error; err != nil {
			return err
		}
	}
	return nil
}
