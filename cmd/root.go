/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/config"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Global Flags
const (
	FlagConfig        = "config"
	FlagLogLevel      = "log-level"
	FlagLogFile       = "log-file"
	FlagCpuThreshold  = "cpu-threshold"
	FlagDiskThreshold = "disk-threshold"
)

// 命令行参数与配置项的对应关系。只绑定当前执行的命令上存在的参数
var flagKeys = map[string]string{
	FlagLogLevel:      config.KeyLogLevel,
	FlagLogFile:       config.KeyLogFile,
	FlagCpuThreshold:  config.KeyCpuThreshold,
	FlagDiskThreshold: config.KeyDiskThreshold,
	FlagWarmup:        config.KeyWarmup,
	FlagGroups:        config.KeyGroups,
	FlagRounds:        config.KeyRounds,
	FlagMysqlHost:     config.KeyMysqlHost,
}

var cfgFile string

// 当前命令使用的配置，在PersistentPreRunE中读取
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loadtest-analyzer",
	Short: "压测结果分析工具",
	Long: "读取压测产生的日志与资源采样文件，提取性能指标并按线程数连接成表格，\n" +
		"根据阈值判断各负载等级与各负载类型的资源瓶颈，输出报告与图表描述。",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return errors.Wrap(err, fmt.Sprintf("绑定参数%s出错", name))
				}
			}
		}

		cfg = config.New(v)
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "配置错误")
		}
		logger.Init(&cfg.Log)
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("使用配置文件", zap.String("path", used))
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// 报告与用法输出到stdout，日志输出到stderr
	rootCmd.SetOut(os.Stdout)

	rootCmd.PersistentFlags().StringVar(&cfgFile, FlagConfig, "",
		"配置文件（默认为$HOME/.loadtest-analyzer.yaml）")
	rootCmd.PersistentFlags().String(FlagLogLevel, "info",
		"日志级别，可选值：debug, info, warn, error")
	rootCmd.PersistentFlags().String(FlagLogFile, "",
		"日志文件。若不为空，日志将同时以JSON格式写入此文件")
	rootCmd.PersistentFlags().Float64(FlagCpuThreshold, classify.DefaultCpuThreshold,
		"CPU平均使用率超过此值（%）时认为CPU饱和")
	rootCmd.PersistentFlags().Float64(FlagDiskThreshold, classify.DefaultDiskThreshold,
		"磁盘平均读写速率超过此值（KB/s）时认为磁盘I/O过高")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".loadtest-analyzer" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".loadtest-analyzer")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv() // read in environment variables that match
	config.SetDefaults(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Println("读取配置文件出错：", err)
		os.Exit(1)
	}
}

// requireDir 检查是否只有一个参数且为存在的目录。参数数量错误时输出用法
func requireDir(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		_ = cmd.Usage()
		return fmt.Errorf("参数错误，需要且只需要一个目录")
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("目录%s不存在", args[0])
	} else if !info.IsDir() {
		return fmt.Errorf("%s不是目录", args[0])
	}
	return nil
}
