package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the session in the alternate screen until it is saved or
// cancelled. The caller reads the outcome from the model afterwards; a run
// stopped through ctx leaves it Pending.
func Run(ctx context.Context, m *SessionModel) error {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("session loop failed: %w", err)
	}
	return nil
}
