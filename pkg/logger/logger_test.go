package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	lg := Get()
	if lg == nil {
		t.Fatal("logger is nil after initialization")
	}

	ctx := context.Background()
	lg.Info(ctx, "info line", String("stage", "test"), Int("n", 1))
	lg.Debug(ctx, "debug line", Float64("value", 0.5))
	lg.Warn(ctx, "warn line")
	lg.Error(ctx, "error line", Error(nil))

	named := lg.Named("pipeline")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(ctx, "named line")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("level %q rejected: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected unknown level to be rejected")
	}
}
