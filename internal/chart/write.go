package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	JSON = Format("json")
	YAML = Format("yaml")
)

// FormatFromPath 根据文件扩展名选择输出格式
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("不支持的图表文件格式：%s（可选：.json, .yaml, .yml）", ext)
	}
}

func Write(w io.Writer, doc *Document, format Format) error {
	switch format {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(doc), "输出JSON出错")
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return errors.Wrap(err, "输出YAML出错")
		}
		return errors.Wrap(encoder.Close(), "输出YAML出错")
	default:
		return fmt.Errorf("不支持的图表格式：%s", format)
	}
}

// WriteFile 按扩展名选择格式写入文件
func WriteFile(path string, doc *Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("创建%s出错", path))
	}
	if err = Write(f, doc, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
