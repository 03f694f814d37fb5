// internal/config/flags.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds values parsed from command-line flags. Only flags the user
// actually set override the configuration.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFilePath string
	Version        bool
	LogLevel       string
	LogFilePath    string
	EnableTags     []string
	DisableTags    []string
	EnablePkgs     []string
	DisablePkgs    []string
	EnableFiles    []string
	DisableFiles   []string
	DebugLog       bool

	Backend    string
	BaseURL    string
	Model      string
	APIKeys    []string
	Cutoff     float64
	MaxTrivial int
	TrivialAdd []string // Words to store in the dictionary before starting

	Dictionary bool
	RedisAddr  string

	NoWatch         bool
	Format          bool
	SystemClipboard bool
	ExportDir       string
}

// NewFlags defines the command-line flags on a fresh flag set.
func NewFlags() *Flags {
	f := &Flags{fs: pflag.NewFlagSet(AppName, pflag.ContinueOnError)}
	fs := f.fs

	fs.StringVarP(&f.ConfigFilePath, "config", "c", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	fs.BoolVarP(&f.Version, "version", "v", false, "Show version information and exit")
	fs.StringVar(&f.LogLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFilePath, "logfile", "", "Path to write log file (use '-' for stderr)")
	fs.StringSliceVar(&f.EnableTags, "log-tags", nil, "Tags to enable")
	fs.StringSliceVar(&f.DisableTags, "log-disable-tags", nil, "Tags to disable")
	fs.StringSliceVar(&f.EnablePkgs, "log-packages", nil, "Packages to enable")
	fs.StringSliceVar(&f.DisablePkgs, "log-disable-packages", nil, "Packages to disable")
	fs.StringSliceVar(&f.EnableFiles, "log-files", nil, "Files to enable")
	fs.StringSliceVar(&f.DisableFiles, "log-disable-files", nil, "Files to disable")
	fs.BoolVar(&f.DebugLog, "debug-log", false, "Trace the logger filtering decisions on stderr")

	fs.StringVarP(&f.Backend, "backend", "b", "", "Improvement backend (http, gemini)")
	fs.StringVarP(&f.BaseURL, "base-url", "u", "", "Base URL of the processing server (http backend)")
	fs.StringVarP(&f.Model, "model", "m", "", "Model name used for requests and cost reports")
	fs.StringSliceVarP(&f.APIKeys, "api-key", "k", nil, "API key; repeat to allow rotation (gemini backend)")
	fs.Float64Var(&f.Cutoff, "cutoff", 0, "Similarity at or below which an edit is always significant")
	fs.IntVar(&f.MaxTrivial, "max-trivial", 0, "Most differing function words an edit may have and still be trivial")
	fs.StringSliceVarP(&f.TrivialAdd, "trivial-add", "t", nil, "Add words to the trivial-word dictionary")

	fs.BoolVarP(&f.Dictionary, "dictionary", "d", false, "Merge the Redis trivial-word dictionary into the classifier")
	fs.StringVar(&f.RedisAddr, "redis-addr", "", "Redis address of the trivial-word dictionary")

	fs.BoolVar(&f.NoWatch, "no-watch", false, "Do not reload changes made to the transcript by other programs")
	fs.BoolVarP(&f.Format, "format", "f", false, "Put every sentence in its own paragraph on load")
	fs.BoolVar(&f.SystemClipboard, "system-clipboard", false, "Yank to the system clipboard")
	fs.StringVarP(&f.ExportDir, "export-dir", "o", "", "Directory for .docx exports")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <transcript.txt>\n\n", AppName)
		fmt.Fprintln(os.Stderr, "Review AI-proposed corrections to a transcript.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return f
}

// Parse parses args (without the program name). It returns the remaining
// non-flag arguments (e.g., the file path).
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ParseFlags defines and parses the process's command-line flags.
func ParseFlags() (*Flags, []string, error) {
	f := NewFlags()
	args, err := f.Parse(os.Args[1:])
	return f, args, err
}

// Changed reports whether the named flag was set on the command line.
func (f *Flags) Changed(name string) bool {
	return f.fs.Changed(name)
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = f.LogFilePath // Empty string is valid
		case "log-tags":
			cfg.Logger.EnabledTags = cleanList(f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = cleanList(f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = cleanList(f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = cleanList(f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = cleanList(f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = cleanList(f.DisableFiles)
		case "debug-log":
			cfg.Logger.DebugFilter = f.DebugLog
		case "backend":
			cfg.Improver.Backend = f.Backend
		case "base-url":
			cfg.Improver.BaseURL = f.BaseURL
		case "model":
			cfg.Improver.Model = f.Model
		case "api-key":
			cfg.Improver.APIKeys = cleanList(f.APIKeys)
		case "cutoff":
			cfg.Classifier.SimilarityCutoff = f.Cutoff
		case "max-trivial":
			cfg.Classifier.MaxTrivialDiffs = f.MaxTrivial
		case "dictionary":
			cfg.Dictionary.Enabled = f.Dictionary
		case "redis-addr":
			cfg.Dictionary.Addr = f.RedisAddr
		case "no-watch":
			cfg.Editor.Watch = !f.NoWatch
		case "format":
			cfg.Editor.FormatOnLoad = f.Format
		case "system-clipboard":
			cfg.Editor.SystemClipboard = f.SystemClipboard
		case "export-dir":
			cfg.Editor.ExportDir = f.ExportDir
		}
	})
}

// cleanList trims the items of a flag list and drops empty ones.
func cleanList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Usage prints the flag help to stderr.
func (f *Flags) Usage() {
	f.fs.Usage()
}
