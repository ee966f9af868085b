package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/garyaschafer/vid-handout/internal/handout"
)

// scanCmd runs the auto-select pipeline. confirmed reflects whether the
// user already answered the destructive-rescan prompt; the UI never lets
// an unconfirmed destructive scan reach this point.
func scanCmd(app *App, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		confirm := func() bool { return confirmed }
		if err := app.Session.AutoSelect(context.Background(), app.Scheduler, app.Source, app.Ranker, confirm); err != nil {
			return errorMsg{err: err}
		}
		return scanDoneMsg{
			candidates: app.Session.Candidates(),
			curated:    app.Session.Curated(),
		}
	}
}

// generateCmd submits the curated set and writes the document to disk.
func generateCmd(app *App) tea.Cmd {
	return func() tea.Msg {
		doc, ordered, err := handout.Generate(context.Background(), app.Generator, app.Session.Curated())
		if err != nil {
			return errorMsg{err: err}
		}

		if err := handout.WriteDocument(app.OutputPath, doc); err != nil {
			return errorMsg{err: err}
		}

		return handoutDoneMsg{doc: doc, frames: ordered, outputPath: app.OutputPath}
	}
}
