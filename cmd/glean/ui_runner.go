package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"glean/internal/driver"
	"glean/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.Check while a Bubble Tea progress view follows
// its events on stderr.
func runCheckWithUI(ctx context.Context, title string, req driver.Request) (*driver.Result, error) {
	files, err := driver.Discover(req.Paths, driver.DiscoverOptions{
		Extensions: req.Config.Check.Extensions,
		Exclude:    req.Config.Check.Exclude,
		Base:       req.Config.Root(),
	})
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcome := make(chan checkOutcome, 1)
	go func() {
		req.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, req)
		close(events)
		outcome <- checkOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	_, uiErr := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run()
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы Check не заблокировался
		for range events {
		}
	}
	out := <-outcome
	if out.err != nil {
		return nil, out.err
	}
	return out.result, uiErr
}
