package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	c := New(v)

	assert.Equal(t, 5, c.Warmup)
	assert.Equal(t, 80.0, c.Thresholds.CpuPercent)
	assert.Equal(t, 10000.0, c.Thresholds.DiskKBps)
	assert.Equal(t, 10.0, c.Trend.PlateauVariationPercent)
	assert.Equal(t, 100.0, c.Trend.DegradationPercent)
	assert.Equal(t, 0, c.Groups)
	assert.Equal(t, 30, c.Rounds)
	assert.Equal(t, "info", c.Log.Level)
	assert.NoError(t, c.Validate())
}

func TestOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyCpuThreshold, 90)
	v.Set(KeyWarmup, 0)
	v.Set(KeyMysqlHost, "db:3306")
	c := New(v)

	assert.Equal(t, 90.0, c.Thresholds.CpuPercent)
	assert.Equal(t, 0, c.Warmup)
	assert.Equal(t, "db:3306", c.Mysql.Host)
	assert.NoError(t, c.Validate())
}

func TestEnv(t *testing.T) {
	t.Setenv("LOADTEST_DISK_THRESHOLD", "5000")
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	assert.Equal(t, 5000.0, New(v).Thresholds.DiskKBps)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	c := New(v)
	c.Warmup = -1
	assert.Error(t, c.Validate())

	c = New(v)
	c.Thresholds.CpuPercent = -1
	assert.Error(t, c.Validate())

	c = New(v)
	c.Groups = -2
	assert.Error(t, c.Validate())

	c = New(v)
	c.Log.Level = "trace"
	assert.Error(t, c.Validate())
}
