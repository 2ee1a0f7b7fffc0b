package models

import (
	"gorm.io/gorm"
)

// Player 表示房間中的一位玩家
type Player struct {
	gorm.Model
	Name   string `gorm:"not null" json:"name"`
	Avatar string `json:"avatar,omitempty"`
	IsHost bool   `json:"is_host"`
	RoomID *uint  `gorm:"index" json:"room_id"`
	Role   Role   `json:"role,omitempty"` // 每回合重新指派，遊戲重置時清空
	Score  int    `json:"score"`          // 只增不減，由回合結算累加
}

// Role 定義玩家角色的類型
type Role string

const (
	RoleKing   Role = "King"   // 國王，每回合公開
	RolePolice Role = "Police" // 警察，本回合唯一可以猜測的玩家
	RoleChor   Role = "Chor"   // 小偷，秘密角色
	RoleDakat  Role = "Dakat"  // 大盜，秘密角色
)

// AllRoles 回傳每回合要洗牌分配的四個固定角色
func AllRoles() []Role {
	return []Role{RoleKing, RolePolice, RoleChor, RoleDakat}
}
