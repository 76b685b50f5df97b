package o2

import (
	"log/slog"
	"os"
)

// Logger receives warnings about recovered conditions: animation paths that
// cannot be bound, agents whose value type does not match, mask entries
// naming unknown fields. Replace it with SetLogger.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetLogger replaces the package logger. A nil logger discards output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	Logger = l
}
