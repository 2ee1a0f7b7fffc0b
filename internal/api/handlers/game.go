package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chor_police/internal/service"
)

// GameHandler 處理遊戲流程相關的請求
type GameHandler struct {
	gameService *service.GameService
	roomService *service.RoomService
}

// NewGameHandler 創建一個新的 GameHandler 實例
func NewGameHandler(gameService *service.GameService, roomService *service.RoomService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		roomService: roomService,
	}
}

// StartGame 處理開始遊戲的請求，只有持有房主令牌的房主可以呼叫
func (h *GameHandler) StartGame(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	if !h.verifyHost(c, roomID) {
		return
	}

	var input struct {
		TotalRounds int `json:"total_rounds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.gameService.StartGame(roomID, input.TotalRounds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "遊戲開始"})
}

// ResetGame 處理重置遊戲的請求，把已結束的房間帶回大廳
func (h *GameHandler) ResetGame(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	if !h.verifyHost(c, roomID) {
		return
	}

	if err := h.roomService.ResetGame(roomID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "遊戲已重置"})
}

// verifyHost 確認令牌中的玩家確實是這個房間的房主
func (h *GameHandler) verifyHost(c *gin.Context, roomID uint) bool {
	hostID, exists := c.Get("hostID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少房主令牌"})
		return false
	}

	player, err := h.roomService.GetPlayer(hostID.(uint))
	if err != nil || !player.IsHost {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有房主可以執行這個操作"})
		return false
	}
	if player.RoomID == nil || *player.RoomID != roomID {
		c.JSON(http.StatusForbidden, gin.H{"error": "令牌與房間不符"})
		return false
	}

	return true
}
