package main

import (
	"flag"
	"os"

	"github.com/cnotch/xlog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls logging.
type LogConfig struct {
	Level xlog.Level `json:"level"`

	// ToFile also writes JSON logs to Filename.
	ToFile   bool   `json:"tofile"`
	Filename string `json:"filename"`

	// MaxSize is the size in megabytes at which the log file is rotated.
	MaxSize int `json:"maxsize"`

	// MaxDays and MaxBackups bound how many rotated files are kept.
	MaxDays    int `json:"maxdays"`
	MaxBackups int `json:"maxbackups"`

	Compress bool `json:"compress"`
}

func (c *LogConfig) initFlags() {
	flag.Var(&c.Level, "log-level",
		"Set the log level to output")
	flag.BoolVar(&c.ToFile, "log-tofile", false,
		"Determines if logs should be saved to file")
	flag.StringVar(&c.Filename, "log-filename",
		"./logs/"+name+".log", "Set the file to write logs to")
	flag.IntVar(&c.MaxSize, "log-maxsize", 20,
		"Set the maximum size in megabytes of the log file before it gets rotated")
	flag.IntVar(&c.MaxDays, "log-maxdays", 7,
		"Set the maximum days of old log files to retain")
	flag.IntVar(&c.MaxBackups, "log-maxbackups", 14,
		"Set the maximum number of old log files to retain")
	flag.BoolVar(&c.Compress, "log-compress", false,
		"Determines if the log files should be compressed")
}

func (c *LogConfig) initLogger() {
	console := xlog.NewCore(xlog.NewConsoleEncoder(xlog.LstdFlags|xlog.Lmicroseconds|xlog.Llongfile), xlog.Lock(os.Stderr), c.Level)
	if !c.ToFile {
		xlog.ReplaceGlobal(xlog.New(console, xlog.AddCaller()))
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxDays,
		LocalTime:  true,
		Compress:   c.Compress,
	}
	xlog.ReplaceGlobal(
		xlog.New(xlog.NewTee(console,
			xlog.NewCore(xlog.NewJSONEncoder(xlog.Llongfile), fileWriter, c.Level)),
			xlog.AddCaller()))
}
