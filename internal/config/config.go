package config

import (
	"fmt"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/datasource"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/spf13/viper"
)

// 配置项的键，与配置文件、环境变量（LOADTEST_前缀）共用
const (
	KeyWarmup        = "warmup"
	KeyCpuThreshold  = "cpu_threshold"
	KeyDiskThreshold = "disk_threshold"
	KeyPlateau       = "plateau_variation"
	KeyDegradation   = "degradation"
	KeyGroups        = "groups"
	KeyRounds        = "rounds"
	KeyMysqlHost     = "mysql_host"
	KeyMysqlUser     = "mysql_user"
	KeyMysqlPassword = "mysql_password"
	KeyMysqlDatabase = "mysql_database"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyLogFile       = "log_file"
	KeyLogMaxSize    = "log_max_size"
	KeyLogMaxBackups = "log_max_backups"
	KeyLogMaxAge     = "log_max_age"
)

const EnvPrefix = "LOADTEST"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

type Config struct {
	Warmup     int
	Thresholds classify.Thresholds
	Trend      classify.TrendConfig
	Groups     int
	Rounds     int
	Mysql      MysqlConfig
	Log        logger.Config
}

type MysqlConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyWarmup, datasource.DefaultWarmupSamples)
	v.SetDefault(KeyCpuThreshold, classify.DefaultCpuThreshold)
	v.SetDefault(KeyDiskThreshold, classify.DefaultDiskThreshold)
	v.SetDefault(KeyPlateau, classify.DefaultPlateauVariationPercent)
	v.SetDefault(KeyDegradation, classify.DefaultDegradationPercent)
	v.SetDefault(KeyGroups, 0)
	v.SetDefault(KeyRounds, classify.KMeansDefaultRound)
	v.SetDefault(KeyMysqlUser, "root")
	v.SetDefault(KeyMysqlPassword, "")
	v.SetDefault(KeyMysqlDatabase, "loadtest")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogMaxSize, 100)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAge, 28)
}

// New 从viper中读取当前配置
func New(v *viper.Viper) *Config {
	return &Config{
		Warmup: v.GetInt(KeyWarmup),
		Thresholds: classify.Thresholds{
			CpuPercent: v.GetFloat64(KeyCpuThreshold),
			DiskKBps:   v.GetFloat64(KeyDiskThreshold),
		},
		Trend: classify.TrendConfig{
			PlateauVariationPercent: v.GetFloat64(KeyPlateau),
			DegradationPercent:      v.GetFloat64(KeyDegradation),
		},
		Groups: v.GetInt(KeyGroups),
		Rounds: v.GetInt(KeyRounds),
		Mysql: MysqlConfig{
			Host:     v.GetString(KeyMysqlHost),
			User:     v.GetString(KeyMysqlUser),
			Password: v.GetString(KeyMysqlPassword),
			Database: v.GetString(KeyMysqlDatabase),
		},
		Log: logger.Config{
			Level:      v.GetString(KeyLogLevel),
			Format:     v.GetString(KeyLogFormat),
			FilePath:   v.GetString(KeyLogFile),
			MaxSize:    v.GetInt(KeyLogMaxSize),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAge:     v.GetInt(KeyLogMaxAge),
		},
	}
}

func (c *Config) Validate() error {
	if c.Warmup < 0 {
		return fmt.Errorf("预热采样数不能为负数：%d", c.Warmup)
	}
	if c.Thresholds.CpuPercent < 0 || c.Thresholds.DiskKBps < 0 {
		return fmt.Errorf("瓶颈阈值不能为负数")
	}
	if c.Trend.PlateauVariationPercent < 0 || c.Trend.DegradationPercent < 0 {
		return fmt.Errorf("趋势分析参数不能为负数")
	}
	if c.Groups < 0 {
		return fmt.Errorf("分组数量不能为负数：%d", c.Groups)
	}
	if c.Rounds < 0 {
		return fmt.Errorf("聚类迭代次数不能为负数：%d", c.Rounds)
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("无效的日志级别：%s（可选值：debug, info, warn, error）", c.Log.Level)
	}
	return nil
}
