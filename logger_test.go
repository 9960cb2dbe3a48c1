package ggedit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/ggedit/layer"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if got := Logger(); got != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}

	// Editors created afterwards log through it.
	ed, err := New(WithCanvasSize(10, 10))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ed.Close()
	ed.UpdateLayer("missing", layer.Patch{Visible: layer.Ref(false)})
	if !strings.Contains(buf.String(), "missing") {
		t.Errorf("expected log output to mention the unknown layer, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestLoggerSwapWhileEditing(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}

	// An editor keeps the logger it was built with.
	ed, err := New(WithCanvasSize(4, 4))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	defer ed.Close()
	ed.AddTextLayer("still fine")
	wg.Wait()
}

func BenchmarkSilentLookupMiss(b *testing.B) {
	ed, err := New(WithCanvasSize(4, 4))
	if err != nil {
		b.Fatal(err)
	}
	defer ed.Close()
	p := layer.Patch{Visible: layer.Ref(false)}
	b.ReportAllocs()
	for b.Loop() {
		ed.UpdateLayer("missing", p)
	}
}
