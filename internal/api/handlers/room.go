package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chor_police/internal/service"
	"chor_police/internal/utils"
)

// RoomHandler 處理與遊戲房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求，同時建立房主玩家並發放房主令牌
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		Name   string `json:"name" binding:"required"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	host, room, err := h.roomService.CreateRoom(input.Name, input.Avatar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateHostToken(host.ID, room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "獲取房主令牌失敗"})
		return
	}

	c.SetCookie("hostToken", token, 86400, "/", "", true, true)
	c.JSON(http.StatusCreated, gin.H{
		"host":      host,
		"room":      room,
		"hostToken": token,
	})
}

// JoinRoom 處理用加入代碼加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		RoomCode string `json:"room_code" binding:"required"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, room, err := h.roomService.JoinRoom(input.RoomCode, input.Name, input.Avatar)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"player": player,
		"room":   room,
	})
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	room, err := h.roomService.GetRoom(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	players, err := h.roomService.GetPlayers(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢房間玩家"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room, "players": players})
}

// GetLeaderboard 處理獲取排行榜的請求
func (h *RoomHandler) GetLeaderboard(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	leaderboard, err := h.roomService.GetLeaderboard(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢排行榜"})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// GetRounds 處理獲取回合歷史的請求
func (h *RoomHandler) GetRounds(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	rounds, err := h.roomService.GetRounds(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢回合紀錄"})
		return
	}

	c.JSON(http.StatusOK, rounds)
}

// GetWinner 處理獲取勝者的請求，遊戲結束後才有結果
func (h *RoomHandler) GetWinner(c *gin.Context) {
	roomID, err := parseRoomID(c)
	if err != nil {
		return
	}

	winner, err := h.roomService.GetWinner(roomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, winner)
}

// parseRoomID 解析路徑中的房間 ID，失敗時直接回覆 400
func parseRoomID(c *gin.Context) (uint, error) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的房間 ID"})
		return 0, err
	}
	return uint(roomID), nil
}
