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
	"github.com/packagewjx/loadtest-analyzer/internal/exporter"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const FlagOutput = "output"

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:     "export results_dir",
	Short:   "将单个负载的结果导出为Prometheus textfile格式",
	PreRunE: requireDir,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := table.BuildRunTable(args[0], &table.Options{Warmup: cfg.Warmup})
		if err != nil {
			return errors.Wrap(err, "构建结果表格出错")
		}

		output := exportOutput
		if output == "" {
			output = filepath.Join(t.Dir, exporter.DefaultFileName)
		}
		if err = exporter.Export(t, cfg.Thresholds, output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Metrics saved: %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, FlagOutput, "o", "",
		"输出文件，默认为results_dir/"+exporter.DefaultFileName)
	exportCmd.Flags().Int(FlagWarmup, datasource.DefaultWarmupSamples,
		"每个资源采样文件开头丢弃的预热采样数")
}
