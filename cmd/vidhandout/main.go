package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"

	"github.com/garyaschafer/vid-handout/internal/capture"
	"github.com/garyaschafer/vid-handout/internal/config"
	"github.com/garyaschafer/vid-handout/internal/handout"
	"github.com/garyaschafer/vid-handout/internal/media"
	"github.com/garyaschafer/vid-handout/internal/scan"
	"github.com/garyaschafer/vid-handout/internal/selector"
	"github.com/garyaschafer/vid-handout/internal/session"
	"github.com/garyaschafer/vid-handout/internal/tui"
	"github.com/garyaschafer/vid-handout/internal/vision"
)

func main() {
	ctx := context.Background()

	// Parse command line arguments
	videoPath := ""
	outputPath := ""
	headless := false

	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--video":
			if i+1 < len(os.Args) {
				videoPath = os.Args[i+1]
				i++
			}
		case "--output":
			if i+1 < len(os.Args) {
				outputPath = os.Args[i+1]
				i++
			}
		case "--headless":
			headless = true
		}
	}

	if videoPath == "" {
		fmt.Println("Usage: vidhandout --video path/to/video.mp4 [--output handout.json] [--headless]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Configure logger
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel(cfg.LogLevel),
			TimeFormat: "15:04:05",
		}),
	)

	videoName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	if outputPath == "" {
		outputPath = videoName + ".handout.json"
	}

	// Open the video source
	var src media.Source
	if strings.HasPrefix(videoPath, "http://") || strings.HasPrefix(videoPath, "https://") {
		src, err = media.Fetch(ctx, videoPath)
	} else {
		src, err = media.Open(ctx, videoPath)
	}
	if err != nil {
		logger.Error("failed to open video", "err", err)
		os.Exit(1)
	}
	defer src.Close()

	// Initialize the vision agent
	agent, err := vision.NewAgent(ctx, logger, vision.Config{
		BaseURL: cfg.OllamaBaseURL,
		Port:    cfg.OllamaPort,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Error("failed to initialize vision agent", "err", err)
		os.Exit(1)
	}

	var ranker selector.Ranker
	if cfg.Selector == "local" {
		ranker = selector.NewLocalRanker()
	} else {
		ranker = vision.NewRanker(agent, logger)
	}
	generator := vision.NewGenerator(agent, logger)

	extractor := capture.NewExtractor(capture.NewRasterSurface())
	sess := session.New()

	if headless {
		runHeadless(ctx, logger, cfg, sess, extractor, src, ranker, generator, outputPath)
		return
	}

	// Progress updates flow from the scheduler into the UI loop.
	var notify func(tea.Msg)
	sched := scan.New(extractor, scan.Config{
		Steps:       cfg.ScanSteps,
		SeekTimeout: cfg.SeekTimeout,
		SettleDelay: cfg.SettleDelay,
		Logger:      logger,
		OnProgress: func(p scan.Progress) {
			if notify != nil {
				notify(tui.ProgressMsg(p))
			}
		},
	})

	app := &tui.App{
		Session:    sess,
		Scheduler:  sched,
		Source:     src,
		Extractor:  extractor,
		Ranker:     ranker,
		Generator:  generator,
		OutputPath: outputPath,
		VideoName:  videoName,
	}

	p := tea.NewProgram(tui.NewModel(app))
	notify = p.Send

	if _, err := p.Run(); err != nil {
		logger.Error("error running program", "err", err)
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, logger *slog.Logger, cfg config.Config, sess *session.Session, extractor *capture.Extractor, src media.Source, ranker selector.Ranker, generator handout.Generator, outputPath string) {
	sched := scan.New(extractor, scan.Config{
		Steps:       cfg.ScanSteps,
		SeekTimeout: cfg.SeekTimeout,
		SettleDelay: cfg.SettleDelay,
		Logger:      logger,
		OnProgress: func(p scan.Progress) {
			logger.Info("scanning", "step", p.Step, "total", p.Total)
		},
	})

	// A fresh headless run has no curated frames to lose, so no
	// confirmation gate applies.
	if err := sess.AutoSelect(ctx, sched, src, ranker, nil); err != nil {
		logger.Error("auto-select failed", "err", err)
		os.Exit(1)
	}
	logger.Info("frames selected", "candidates", len(sess.Candidates()), "curated", len(sess.Curated()))

	doc, ordered, err := handout.Generate(ctx, generator, sess.Curated())
	if err != nil {
		logger.Error("handout generation failed", "err", err)
		os.Exit(1)
	}

	if err := handout.WriteDocument(outputPath, doc); err != nil {
		logger.Error("failed to write handout", "err", err)
		os.Exit(1)
	}

	logger.Info("handout written", "path", outputPath, "title", doc.Title,
		"steps", len(doc.Steps), "frames", len(ordered))
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
