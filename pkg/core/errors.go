package core

import "github.com/pkg/errors"

// 日志或summary中找不到某个指标。不是致命错误，对应字段保持为空
var ErrMissingField = errors.New("找不到指标")

// 无法从文件名或路径中得到线程数或负载名称，该行数据将被丢弃
var ErrMissingIdentifier = errors.New("无法识别线程数或负载名称")

// 资源采样数量不足以去除预热窗口
var ErrInsufficientSamples = errors.New("资源采样数据不足")

// 目标目录中没有任何可用的输入文件
var ErrNoInputFound = errors.New("没有找到输入文件")

// 输入文件无法打开或解析，该文件将被跳过
var ErrMalformedInput = errors.New("输入文件格式错误")
