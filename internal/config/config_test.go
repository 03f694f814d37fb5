package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[classifier]
similarity_cutoff = 0.9

[improver]
backend = "gemini"
api_keys = ["k1", "k2"]

[editor]
watch = false
export_dir = "/tmp/out"
`)
	cfg, res, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if res.Path != path {
		t.Errorf("res.Path = %q, want %q", res.Path, path)
	}
	if len(res.Undecoded) != 0 || len(res.Reset) != 0 {
		t.Errorf("unexpected result %+v", res)
	}

	def := NewDefaultConfig()
	want := *def
	want.Classifier.SimilarityCutoff = 0.9
	want.Improver.Backend = "gemini"
	want.Improver.APIKeys = []string{"k1", "k2"}
	want.Editor.Watch = false
	want.Editor.ExportDir = "/tmp/out"

	if diff := cmp.Diff(want.Classifier, cfg.Classifier); diff != "" {
		t.Errorf("classifier mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Improver, cfg.Improver); diff != "" {
		t.Errorf("improver mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Editor, cfg.Editor); diff != "" {
		t.Errorf("editor mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, res, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if res.Path != "" {
		t.Errorf("res.Path = %q, want empty", res.Path)
	}
	if cfg.Editor.WatchDelay != DefaultWatchDelay {
		t.Errorf("WatchDelay = %v, want %v", cfg.Editor.WatchDelay, DefaultWatchDelay)
	}
}

func TestLoadConfigParseError(t *testing.T) {
	path := writeConfig(t, "[editor\nwatch = ")
	if _, _, err := LoadConfig(path, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigReportsUndecodedKeys(t *testing.T) {
	path := writeConfig(t, `
[editor]
colour = "red"
`)
	_, res, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff([]string{"editor.colour"}, res.Undecoded); diff != "" {
		t.Errorf("undecoded mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigResetsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "loud"

[classifier]
similarity_cutoff = 0.2

[improver]
concurrency = 0

[editor]
scroll_off = -1
watch_delay = -5
`)
	cfg, res, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := []string{
		"editor.scroll_off",
		"editor.watch_delay",
		"logger.log_level",
		"classifier.similarity_cutoff",
		"improver.concurrency",
	}
	if diff := cmp.Diff(want, res.Reset); diff != "" {
		t.Errorf("reset mismatch (-want +got):\n%s", diff)
	}
	def := NewDefaultConfig()
	if cfg.Classifier.SimilarityCutoff != def.Classifier.SimilarityCutoff {
		t.Errorf("SimilarityCutoff = %v, want default", cfg.Classifier.SimilarityCutoff)
	}
	if cfg.Editor.WatchDelay != DefaultWatchDelay {
		t.Errorf("WatchDelay = %v, want default", cfg.Editor.WatchDelay)
	}
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, `
[improver]
model = "from-file"
base_url = "http://file:8000"
`)
	flags := NewFlags()
	args, err := flags.Parse([]string{
		"-m", "from-flag",
		"--cutoff", "0.9",
		"--no-watch",
		"--api-key", "a, b",
		"--api-key", "c",
		"--log-tags", "batch,,apply",
		"transcript.txt",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"transcript.txt"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	cfg, _, err := LoadConfig(path, flags)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"model from flag", cfg.Improver.Model, "from-flag"},
		{"base url from file", cfg.Improver.BaseURL, "http://file:8000"},
		{"cutoff", cfg.Classifier.SimilarityCutoff, 0.9},
		{"watch", cfg.Editor.Watch, false},
		{"api keys", cfg.Improver.APIKeys, []string{"a", "b", "c"}},
		{"log tags", cfg.Logger.EnabledTags, []string{"batch", "apply"}},
		{"unset flag keeps default", cfg.Editor.WatchDelay, 200 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagUnsetDoesNotOverride(t *testing.T) {
	flags := NewFlags()
	if _, err := flags.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := NewDefaultConfig()
	cfg.Editor.Watch = true
	cfg.Improver.Model = "kept"
	flags.ApplyOverrides(cfg)
	if !cfg.Editor.Watch || cfg.Improver.Model != "kept" {
		t.Errorf("unset flags changed config: watch=%v model=%q", cfg.Editor.Watch, cfg.Improver.Model)
	}
	if flags.Changed("model") {
		t.Error("Changed(model) = true for unset flag")
	}
}
