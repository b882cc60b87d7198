package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the bubbletea program.
type App struct {
	program *tea.Program
	model   Model
	// onExit persists state after the program stops.
	onExit func() error
}

// New creates a TUI application. onExit, when non-nil, runs after the UI
// closes, including after a signal.
func New(d Deps, onExit func() error) *App {
	return &App{model: NewModel(d), onExit: onExit}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(a.model, tea.WithAltScreen())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigChan)
		close(done)
	}()

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-done:
		}
	}()

	_, err := a.program.Run()
	if a.onExit != nil {
		if exitErr := a.onExit(); err == nil {
			err = exitErr
		}
	}
	return err
}
