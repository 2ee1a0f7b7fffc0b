package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// GameConfig 遊戲引擎的參數，沒有配置時使用預設值
type GameConfig struct {
	RoundDurationSeconds int
	IntermissionSeconds  int
	Scores               ScoresConfig
}

// ScoresConfig 計分表，點數是可調整的常數而不是固定不變的規則
type ScoresConfig struct {
	King        int
	PoliceCatch int
	ChorHide    int
	DakatHide   int
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 遊戲參數的預設值
	viper.SetDefault("game.rounddurationseconds", 15)
	viper.SetDefault("game.intermissionseconds", 5)
	viper.SetDefault("game.scores.king", 1000)
	viper.SetDefault("game.scores.policecatch", 800)
	viper.SetDefault("game.scores.chorhide", 400)
	viper.SetDefault("game.scores.dakathide", 600)

	if err := viper.ReadInConfig(); err != nil {
		// 找不到配置檔時照預設值跑，其他錯誤照常回報
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
