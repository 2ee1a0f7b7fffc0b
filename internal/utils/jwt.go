package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt"
)

var jwtSecret = []byte(hostTokenSecret())

func hostTokenSecret() string {
	if s := os.Getenv("HOST_TOKEN_SECRET"); s != "" {
		return s
	}
	return "chor_police_secret" // 在實際應用中，這應該由環境變量提供
}

// HostClaims 房主令牌的內容，綁定玩家與房間
type HostClaims struct {
	PlayerID uint `json:"player_id"`
	RoomID   uint `json:"room_id"`
	jwt.StandardClaims
}

// GenerateHostToken 為房主生成一個新的 JWT token
func GenerateHostToken(playerID, roomID uint) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(24 * time.Hour)

	claims := HostClaims{
		PlayerID: playerID,
		RoomID:   roomID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

// ParseHostToken 解析和驗證房主令牌
func ParseHostToken(token string) (*HostClaims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*HostClaims); ok && tokenClaims.Valid {
			return claims, nil
		}
	}

	return nil, err
}
