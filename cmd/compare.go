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

	"github.com/packagewjx/loadtest-analyzer/internal/chart"
	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/report"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	FlagGroups = "groups"
	FlagRounds = "rounds"
)

var compareCharts string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare master_dir",
	Short: "对比多个负载在最高负载等级下的结果",
	Long: "读取master_dir下每个results_<workload>_<timestamp>/summary.txt，取每个负载线程数最大的一段，\n" +
		"在目录中生成bottleneck_analysis.txt，并在控制台输出对比表格。groups大于0时按资源画像对负载分组。",
	PreRunE: requireDir,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.BuildComparisonTable(args[0])
		if err != nil {
			return errors.Wrap(err, "构建对比表格出错")
		}

		out := cmd.OutOrStdout()
		if err = report.PrintIssues(out, t.Issues); err != nil {
			return err
		}
		fmt.Fprintf(out, "Found %d workload results\n", len(t.Rows))

		if err = report.WriteComparisonReports(t, cfg.Thresholds); err != nil {
			return err
		}
		fmt.Fprintf(out, "Bottleneck analysis saved: %s\n", filepath.Join(t.Dir, report.AnalysisFileName))

		groups := classify.GroupWorkloads(t.Rows, cfg.Groups, cfg.Rounds)
		if err = report.PrintComparison(out, t, cfg.Thresholds, groups); err != nil {
			return err
		}

		if compareCharts != "" {
			if err = chart.WriteFile(compareCharts, chart.ComparisonCharts(t, cfg.Thresholds)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Chart specifications saved: %s\n", compareCharts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareCharts, FlagCharts, "",
		"图表描述输出文件，扩展名为.json或.yaml。为空时不输出")
	compareCmd.Flags().Int(FlagGroups, 0,
		"按资源画像分组的数量，为0时不分组")
	compareCmd.Flags().Int(FlagRounds, classify.KMeansDefaultRound,
		"K-Means算法执行的轮次")
}
