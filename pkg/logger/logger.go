package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是一个全局的、配置好的 logrus 实例，未调用InitLogger时（比如测试）也可以直接使用
var Log = logrus.New()

// InitLogger 初始化全局的Logger实例，file为空时只输出到控制台
func InitLogger(level, file string) error {
	Log = logrus.New()

	// 1. 设置日志格式为JSON，便于后续使用ELK、Loki等工具进行分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// 2. 设置日志输出，同时输出到文件和控制台
	var out io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stdout, f)
	}
	Log.SetOutput(out)

	// 3. 设置日志级别，开发时可以是debug，生产环境可以是info
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	return nil
}
