package tui

import (
	"context"
	"errors"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the card until the user quits or ctx is canceled.
func Run(ctx context.Context, form *aboutme.Form, submitter Submitter) error {
	p := tea.NewProgram(New(ctx, form, submitter), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
