package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileHandler returns a JSON handler writing to a size rotated file.
// The returned closer releases the file.
func NewFileHandler(path string, maxSizeMb, maxBackups int, level slog.Level) (slog.Handler, io.Closer) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMb,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: level}), lj
}
