package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chor_police/internal/api"
	"chor_police/internal/repository"
	"chor_police/internal/service"
	"chor_police/internal/storage"
	"chor_police/pkg/config"
)

func main() {
	// 載入 .env（本地開發用，沒有檔案也沒關係）
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 定期清掉過期的房間
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.CleanupExpiredRooms(); err != nil {
				log.Printf("cleanup expired rooms: %v", err)
			}
		}
	}()

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化 services，把配置中的遊戲參數換算成引擎參數
	gameCfg := service.GameConfig{
		RoundDuration: time.Duration(cfg.Game.RoundDurationSeconds) * time.Second,
		Intermission:  time.Duration(cfg.Game.IntermissionSeconds) * time.Second,
		Scores: service.ScoreTable{
			King:        cfg.Game.Scores.King,
			PoliceCatch: cfg.Game.Scores.PoliceCatch,
			ChorHide:    cfg.Game.Scores.ChorHide,
			DakatHide:   cfg.Game.Scores.DakatHide,
		},
	}
	services := service.NewServices(repos, gameCfg)

	// 設置 Gin 路由
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
