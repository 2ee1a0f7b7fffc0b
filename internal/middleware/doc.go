// Package middleware 提供 gin 的請求中間件。
//
// 目前只有一個：房主令牌的驗證，從 Authorization 標頭或 cookie
// 取出 JWT，驗證後把房主的玩家與房間 ID 放進請求上下文，
// 保護開始遊戲、重置遊戲這類只有房主能執行的操作。
package middleware
