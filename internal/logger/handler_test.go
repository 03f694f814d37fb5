package logger

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

func record(msg string, tag string) slog.Record {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	return r
}

func TestFilteringHandler(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		tag    string
		wantOK bool
	}{
		{name: "no filters", cfg: Config{}, wantOK: true},
		{name: "disabled tag", cfg: Config{DisabledTags: []string{"Batch"}}, tag: "batch", wantOK: false},
		{name: "enabled tag", cfg: Config{EnabledTags: []string{"batch"}}, tag: "batch", wantOK: true},
		{name: "untagged with allow-list", cfg: Config{EnabledTags: []string{"batch"}}, wantOK: false},
		{name: "disabled package", cfg: Config{DisabledPackages: []string{"logger"}}, wantOK: false},
		{name: "enabled other package", cfg: Config{EnabledPackages: []string{"session"}}, wantOK: false},
		{name: "disabled file", cfg: Config{DisabledFiles: []string{"handler_test.go"}}, wantOK: false},
		{name: "disabled wins over enabled", cfg: Config{EnabledTags: []string{"x"}, DisabledTags: []string{"x"}}, tag: "x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg := tt.cfg
			cfg.process()
			level := new(slog.LevelVar)
			h := newHandler(&cfg, &out, level)

			if err := h.Handle(context.Background(), record("hello", tt.tag)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			got := strings.Contains(out.String(), "hello")
			if got != tt.wantOK {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.wantOK, out.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"WARN", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
