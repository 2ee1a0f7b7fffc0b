package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chor_police/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	roomService *service.RoomService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager, roomService *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		roomService: roomService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 玩家連上後就能收到房間廣播與私人事件，重連時自動重新綁定
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	playerID, err := strconv.ParseUint(c.Query("player_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的玩家 ID"})
		return
	}

	// 確認玩家確實屬於這個房間
	player, err := h.roomService.GetPlayer(uint(playerID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "玩家不存在"})
		return
	}
	if player.RoomID == nil || *player.RoomID != roomID {
		c.JSON(http.StatusForbidden, gin.H{"error": "玩家未加入此房間"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	h.wsManager.HandleConnection(conn, roomID, uint(playerID))
}
