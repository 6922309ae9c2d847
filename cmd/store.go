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
	"path/filepath"

	"github.com/packagewjx/loadtest-analyzer/internal/datasource"
	"github.com/packagewjx/loadtest-analyzer/internal/report"
	"github.com/packagewjx/loadtest-analyzer/internal/store"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	FlagMysqlHost = "mysql-host"
	FlagLabel     = "label"
	FlagList      = "list"
	FlagShow      = "show"
	FlagRemove    = "remove"
)

var (
	storeLabel  string
	storeList   bool
	storeShow   string
	storeRemove string
)

var newDao = store.NewDao

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store [results_dir]",
	Short: "将单个负载的结果保存到MySQL，或查询已保存的结果",
	Long: "按标签保存各负载等级的指标与被触发的瓶颈条件。同一标签同一线程数的记录将被更新。\n" +
		"使用--list列出所有标签，--show输出标签下保存的结果，--remove删除标签下的所有记录，此时不需要目录参数。\n" +
		"数据库用户、密码与库名从配置文件或环境变量中读取。",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if storeList || storeShow != "" || storeRemove != "" {
			if len(args) != 0 {
				_ = cmd.Usage()
				return fmt.Errorf("查询或删除时不需要目录参数")
			}
			return nil
		}
		return requireDir(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dao, err := newDao(&store.Config{
			Host:     cfg.Mysql.Host,
			User:     cfg.Mysql.User,
			Password: cfg.Mysql.Password,
			Database: cfg.Mysql.Database,
		})
		if err != nil {
			return err
		}
		defer closeDao(dao)

		switch {
		case storeList:
			return listLabels(cmd, dao)
		case storeShow != "":
			return showLabel(cmd, dao, storeShow)
		case storeRemove != "":
			if err = dao.RemoveLabel(storeRemove); err != nil {
				return errors.Wrap(err, fmt.Sprintf("删除标签%s出错", storeRemove))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed label %s\n", storeRemove)
			return nil
		}

		t, err := table.BuildRunTable(args[0], &table.Options{Warmup: cfg.Warmup})
		if err != nil {
			return errors.Wrap(err, "构建结果表格出错")
		}

		label := storeLabel
		if label == "" {
			label = filepath.Base(filepath.Clean(t.Dir))
		}
		if err = dao.SaveRunTable(label, t, cfg.Thresholds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d load levels under label %s\n", len(t.Rows), label)
		return nil
	},
}

func listLabels(cmd *cobra.Command, dao store.Dao) error {
	labels, err := dao.QueryLabels()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(labels) == 0 {
		fmt.Fprintln(out, "No stored runs")
		return nil
	}
	for _, label := range labels {
		fmt.Fprintln(out, label)
	}
	return nil
}

// showLabel 以结果表格输出标签下保存的负载等级，并列出保存时被触发的瓶颈条件
func showLabel(cmd *cobra.Command, dao store.Dao, label string) error {
	levels, err := dao.QueryLoadLevels(label)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("标签%s下没有记录", label)
	}
	bottlenecks, err := dao.QueryBottlenecks(label)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err = report.PrintRunTable(out, &table.RunTable{Dir: label, Rows: levels}); err != nil {
		return err
	}
	fmt.Fprintln(out, "Stored bottlenecks:")
	if len(bottlenecks) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, b := range bottlenecks {
		fmt.Fprintf(out, "  %d threads: %s (%.1f)\n", b.Threads, b.Condition, b.Value)
	}
	return nil
}

func closeDao(dao store.Dao) {
	db := dao.DB()
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func init() {
	rootCmd.AddCommand(storeCmd)

	storeCmd.Flags().String(FlagMysqlHost, "",
		"Mysql服务器主机端口，格式为：host:port。若为空，则读取环境变量MYSQL_SERVICE_HOST与MYSQL_SERVICE_PORT取得")
	storeCmd.Flags().StringVar(&storeLabel, FlagLabel, "",
		"保存时使用的标签，默认为结果目录名")
	storeCmd.Flags().Int(FlagWarmup, datasource.DefaultWarmupSamples,
		"每个资源采样文件开头丢弃的预热采样数")
	storeCmd.Flags().BoolVar(&storeList, FlagList, false,
		"列出所有已保存的标签")
	storeCmd.Flags().StringVar(&storeShow, FlagShow, "",
		"输出此标签下保存的结果")
	storeCmd.Flags().StringVar(&storeRemove, FlagRemove, "",
		"删除此标签下的所有记录")
	storeCmd.MarkFlagsMutuallyExclusive(FlagList, FlagShow, FlagRemove)
}
