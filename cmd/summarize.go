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
	"github.com/packagewjx/loadtest-analyzer/internal/datasource"
	"github.com/packagewjx/loadtest-analyzer/internal/report"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	FlagCharts = "charts"
	FlagWarmup = "warmup"
)

var summarizeCharts string

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize results_dir",
	Short: "分析单个负载在各负载等级下的结果",
	Long: "读取results_dir中的test_<N>threads.log与resources_<N>threads.csv，按线程数连接后\n" +
		"在目录中生成summary.csv与summary.txt，并在控制台输出结果表格与趋势分析。",
	PreRunE: requireDir,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.BuildRunTable(args[0], &table.Options{Warmup: cfg.Warmup})
		if err != nil {
			return errors.Wrap(err, "构建结果表格出错")
		}

		out := cmd.OutOrStdout()
		if err = report.PrintIssues(out, t.Issues); err != nil {
			return err
		}
		if err = report.PrintRunTable(out, t); err != nil {
			return err
		}

		if err = report.WriteRunReports(t, cfg.Thresholds); err != nil {
			return err
		}
		fmt.Fprintf(out, "CSV file generated: %s\n", filepath.Join(t.Dir, report.SummaryCSVName))
		fmt.Fprintf(out, "Summary text file generated: %s\n\n", filepath.Join(t.Dir, report.SummaryTextName))

		if h := t.Highest(); h != nil && h.Resources != nil {
			fmt.Fprintf(out, "Bottlenecks at %d threads: %s\n\n", h.Threads, classify.Classify(h.Usage(), cfg.Thresholds))
		}

		trend := classify.AnalyzeTrend(t.Rows, cfg.Trend)
		if err = report.PrintTrend(out, trend, cfg.Trend); err != nil {
			return err
		}

		if summarizeCharts != "" {
			if err = chart.WriteFile(summarizeCharts, chart.RunCharts(t)); err != nil {
				return err
			}
			fmt.Fprintf(out, "Chart specifications saved: %s\n", summarizeCharts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&summarizeCharts, FlagCharts, "",
		"图表描述输出文件，扩展名为.json或.yaml。为空时不输出")
	summarizeCmd.Flags().Int(FlagWarmup, datasource.DefaultWarmupSamples,
		"每个资源采样文件开头丢弃的预热采样数")
}
