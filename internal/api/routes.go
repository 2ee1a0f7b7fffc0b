package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chor_police/internal/api/handlers"
	"chor_police/internal/middleware"
	"chor_police/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.RoomService)
	gameHandler := handlers.NewGameHandler(services.GameService, services.RoomService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.RoomService)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 遊戲房間相關
	rooms := api.Group("/rooms")
	{
		// 基本操作
		rooms.POST("", roomHandler.CreateRoom)     // 創建房間（同時建立房主）
		rooms.POST("/join", roomHandler.JoinRoom)  // 用代碼加入房間
		rooms.GET("/:id", roomHandler.GetRoom)     // 獲取房間信息與玩家列表

		// 遊戲資料查詢
		rooms.GET("/:id/leaderboard", roomHandler.GetLeaderboard) // 排行榜
		rooms.GET("/:id/rounds", roomHandler.GetRounds)           // 回合歷史
		rooms.GET("/:id/winner", roomHandler.GetWinner)           // 勝者（遊戲結束後）

		// WebSocket 連接點
		rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
	}

	// 需要房主令牌的路由
	hostOnly := rooms.Group("/")
	hostOnly.Use(middleware.HostAuthMiddleware())
	{
		hostOnly.POST("/:id/start", gameHandler.StartGame) // 開始遊戲
		hostOnly.POST("/:id/reset", gameHandler.ResetGame) // 重置遊戲回大廳
	}
}
