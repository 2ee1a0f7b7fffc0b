// Package api 定義遊戲後端的 HTTP 介面。
//
// 路由分成三塊：房間的建立、加入與查詢端點，只有房主能呼叫的
// 開始與重置端點，以及把連線升級成 WebSocket 的遊戲端點。
// 處理器只負責解析請求和轉呼叫 service，不含任何遊戲邏輯。
package api
