package alloc

import (
	"log/slog"
	"os"
)

// resolveLogger returns cfg.Logger if set, or a logger controlled by the
// UHEAP_LOG_ALLOC environment variable otherwise. Setting UHEAP_LOG_ALLOC
// to any non-empty value turns on debug-level tracing to stderr, the same
// environment-toggle pattern the free-list allocator this package borrows
// its structure from uses for its own HIVE_LOG_ALLOC switch.
func resolveLogger(cfg Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	if os.Getenv("UHEAP_LOG_ALLOC") == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
