package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"squiggle/internal/pipeline"
	"squiggle/internal/ui"
)

// runWithUI runs work in the background while a progress view renders the
// events it emits. events is closed once work returns.
func runWithUI(ctx context.Context, title string, sources []string, events chan pipeline.Event, work func(context.Context) error) error {
	outcome := make(chan error, 1)
	go func() {
		err := work(ctx)
		outcome <- err
		close(events)
	}()

	model := ui.NewProgressModel(title, sources, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early; keep the sink from blocking
	go func() {
		for range events {
		}
	}()
	err := <-outcome
	if uiErr != nil {
		return uiErr
	}
	return err
}
