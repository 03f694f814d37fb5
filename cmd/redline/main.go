// cmd/redline/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"
	"time"

	"github.com/bethropolis/redline/internal/app"
	"github.com/bethropolis/redline/internal/buffer"
	"github.com/bethropolis/redline/internal/classifier"
	"github.com/bethropolis/redline/internal/config"
	"github.com/bethropolis/redline/internal/core/improve"
	"github.com/bethropolis/redline/internal/core/session"
	"github.com/bethropolis/redline/internal/dictionary"
	"github.com/bethropolis/redline/internal/event"
	"github.com/bethropolis/redline/internal/improver"
	"github.com/bethropolis/redline/internal/logger"
	"github.com/bethropolis/redline/internal/theme"
	"github.com/bethropolis/redline/internal/tui"
	"github.com/spf13/pflag"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags, args, err := config.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		stlog.Fatalf("Error parsing flags: %v", err)
	}
	if flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		os.Exit(0)
	}
	if len(args) != 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, result, err := config.LoadConfig(flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Fatalf("Error loading configuration: %v", err)
	}

	// --- Logger Initialization ---
	logCloser, err := logger.Setup(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Error setting up logger: %v", err)
	}
	result.Log()

	code := 0
	if err := run(cfg, flags, args[0]); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		code = 1
	}
	logger.Infof("%s finished.", config.AppName)
	logCloser.Close()
	os.Exit(code)
}

func run(cfg *config.Config, flags *config.Flags, filePath string) error {
	logger.Infof("Starting %s %s on %s", config.AppName, config.Version, filePath)
	ctx := context.Background()

	if cfg.Editor.ThemeFile != "" {
		th, err := theme.LoadThemeFromFile(cfg.Editor.ThemeFile, &theme.RedlineDark)
		if err != nil {
			logger.Warnf("Theme: %v; using %s", err, theme.RedlineDark.Name)
		} else {
			theme.SetCurrentTheme(th)
		}
	}

	if err := loadDictionary(ctx, cfg, flags.TrivialAdd); err != nil {
		return err
	}
	cls := classifier.New(cfg.Classifier)

	imp, err := improver.New(ctx, cfg.Improver)
	if err != nil {
		return fmt.Errorf("improvement backend: %w", err)
	}
	logger.Infof("Improver: %s backend, model %s", imp.Name(), cfg.Improver.Model)

	events := event.NewManager()
	sess := session.New(buffer.NewRuneBuffer(), cls, events)
	if err := sess.Load(filePath); err != nil {
		return err
	}
	if cfg.Editor.FormatOnLoad {
		if text := sess.Text(); text != "" {
			if formatted := improve.FormatParagraphs(text); formatted != text {
				sess.Reset(formatted)
				logger.Infof("Formatted %s into paragraphs", filePath)
			}
		}
	}

	ui, err := tui.New()
	if err != nil {
		return fmt.Errorf("TUI initialization failed: %w", err)
	}
	a, err := app.New(app.Options{
		TUI:         ui,
		Session:     sess,
		Coordinator: improve.New(sess, imp, cfg.Improver),
		Events:      events,
		Editor:      cfg.Editor,
		Theme:       theme.GetCurrentTheme(),
	})
	if err != nil {
		ui.Close()
		return err
	}
	return a.Run()
}

// loadDictionary stores words given on the command line and merges the
// shared trivial-word set into the classifier config. An unreachable
// server is only fatal when words were given to store.
func loadDictionary(ctx context.Context, cfg *config.Config, add []string) error {
	if !cfg.Dictionary.Enabled && len(add) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dict, err := dictionary.Open(ctx, cfg.Dictionary)
	if err != nil {
		if len(add) > 0 {
			return err
		}
		logger.Warnf("Dictionary: %v; using built-in trivial words only", err)
		return nil
	}
	defer dict.Close()

	if len(add) > 0 {
		if err := dict.Add(ctx, add...); err != nil {
			return err
		}
		logger.Infof("Dictionary: added %v", add)
	}
	words, err := dict.Words(ctx)
	if err != nil {
		logger.Warnf("Dictionary: %v", err)
		return nil
	}
	cfg.Classifier.ExtraTrivialWords = append(cfg.Classifier.ExtraTrivialWords, words...)
	logger.Infof("Dictionary: merged %d trivial words", len(words))
	return nil
}
