package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chor_police/internal/models"
)

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	Conn     *websocket.Conn        // WebSocket 連接
	PlayerID uint                   // 玩家 ID
	RoomID   uint                   // 房間 ID
	SendChan chan *models.GameEvent // 事件發送通道，用於異步傳送
}

// ClientMessage 客戶端送上來的訊息
type ClientMessage struct {
	Type          string `json:"type"`
	GuessedUserID uint   `json:"guessed_user_id"`
}

// WebSocketManager 管理所有的 WebSocket 連接和事件推送
// sessions 是玩家與連線的對照表，和玩家的持久紀錄脫鉤，斷線重連時直接覆蓋
type WebSocketManager struct {
	clients    map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	sessions   map[uint]*Client          // playerID -> 最新的連接
	clientsMux sync.RWMutex              // 保護上面兩個 map 的讀寫鎖

	// GuessHandler 處理警察的猜測訊息，由 NewServices 注入避免循環依賴
	GuessHandler func(roomID, playerID, guessedUserID uint)
}

var _ Broadcaster = (*WebSocketManager)(nil)

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:  make(map[uint]map[*Client]bool),
		sessions: make(map[uint]*Client),
	}
}

// HandleConnection 處理新的 WebSocket 連接請求，阻塞直到連線關閉
func (s *WebSocketManager) HandleConnection(conn *websocket.Conn, roomID, playerID uint) {
	client := &Client{
		Conn:     conn,
		PlayerID: playerID,
		RoomID:   roomID,
		SendChan: make(chan *models.GameEvent, 256),
	}

	s.addClient(client)

	defer func() {
		s.removeClient(client)
		conn.Close()
		close(client.SendChan)
	}()

	go s.writePump(client)
	s.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的訊息
func (s *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("message parse error: %v", err)
			continue
		}

		// 遊戲中唯一的客戶端輸入：警察的猜測
		if msg.Type == "guess" && s.GuessHandler != nil {
			s.GuessHandler(client.RoomID, client.PlayerID, msg.GuessedUserID)
		}
	}
}

// writePump 處理向客戶端發送事件的邏輯
func (s *WebSocketManager) writePump(client *Client) {
	// 心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			eventBytes, err := json.Marshal(event)
			if err != nil {
				log.Printf("event encoding error: %v", err)
				continue
			}

			if _, err := w.Write(eventBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播事件
func (s *WebSocketManager) BroadcastToRoom(roomID uint, event *models.GameEvent) {
	s.clientsMux.RLock()
	clients := make([]*Client, 0, len(s.clients[roomID]))
	for client := range s.clients[roomID] {
		clients = append(clients, client)
	}
	s.clientsMux.RUnlock()

	for _, client := range clients {
		select {
		case client.SendChan <- event:
			// 事件成功加入發送隊列
		default:
			// 客戶端隊列已滿，關閉連接
			s.removeClient(client)
			client.Conn.Close()
		}
	}
}

// SendToPlayer 只傳事件給指定玩家，回傳是否有找到該玩家的連線
func (s *WebSocketManager) SendToPlayer(playerID uint, event *models.GameEvent) bool {
	s.clientsMux.RLock()
	client, ok := s.sessions[playerID]
	s.clientsMux.RUnlock()

	if !ok {
		return false
	}

	select {
	case client.SendChan <- event:
		return true
	default:
		s.removeClient(client)
		client.Conn.Close()
		return false
	}
}

// addClient 安全地添加新的客戶端連接
func (s *WebSocketManager) addClient(client *Client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if s.clients[client.RoomID] == nil {
		s.clients[client.RoomID] = make(map[*Client]bool)
	}
	s.clients[client.RoomID][client] = true

	// 重連時直接覆蓋舊連線的對照，舊連線的讀寫迴圈會自行結束
	s.sessions[client.PlayerID] = client
}

// removeClient 安全地移除客戶端連接
func (s *WebSocketManager) removeClient(client *Client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if clients, ok := s.clients[client.RoomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(s.clients, client.RoomID)
		}
	}

	// 只在對照表還指向這個連線時才清除，避免把重連後的新連線清掉
	if s.sessions[client.PlayerID] == client {
		delete(s.sessions, client.PlayerID)
	}
}

// GetRoomClients 獲取指定房間的在線客戶端數量
func (s *WebSocketManager) GetRoomClients(roomID uint) int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	return len(s.clients[roomID])
}
