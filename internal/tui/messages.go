package tui

import (
	"github.com/garyaschafer/vid-handout/internal/frame"
	"github.com/garyaschafer/vid-handout/internal/handout"
	"github.com/garyaschafer/vid-handout/internal/scan"
)

// ProgressMsg relays a scheduler progress update into the UI loop.
type ProgressMsg scan.Progress

type scanDoneMsg struct {
	candidates []frame.Frame
	curated    []frame.Frame
}

type handoutDoneMsg struct {
	doc        *handout.Document
	frames     []frame.Frame
	outputPath string
}

type errorMsg struct {
	err error
}
