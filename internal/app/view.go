package app

import (
	"github.com/charmbracelet/lipgloss"

	uiplayer "github.com/llehouerou/tuner/internal/ui/player"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}
	s := styles.T().S()

	if m.LoadErr != "" {
		return lipgloss.NewStyle().
			Width(m.Width).
			Height(m.Height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(s.Error.Render(m.LoadErr))
	}
	if !m.Ready {
		return lipgloss.NewStyle().
			Width(m.Width).
			Height(m.Height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(s.Muted.Render("Loading station catalog…"))
	}

	var page string
	if m.Page == PageBrowser {
		page = m.Browser.View(m.Width, m.Height-1)
	} else {
		page = m.playerView()
	}

	if m.ErrorMsg != "" {
		page = lipgloss.JoinVertical(lipgloss.Left, page, s.Error.Render(m.ErrorMsg))
	}
	return page
}

func (m Model) playerView() string {
	state := uiplayer.State{
		Status: m.Controller.Status(),
		Moving: m.Rotation.Moving(),
	}

	if st, ok := m.Rotation.Current(); ok {
		state.Mounted = true
		state.Current = st
		state.Single = m.Rotation.Len() == 1
		if prev, ok := m.Rotation.At(-1); ok {
			state.Prev = prev
		}
		if next, ok := m.Rotation.At(1); ok {
			state.Next = next
		}
	}
	if st, ok := m.Controller.Previewing(); ok {
		state.Previewing = true
		state.Preview = st
	}

	body := uiplayer.Render(state, m.Width)
	return lipgloss.NewStyle().
		Width(m.Width).
		Height(m.Height - 1).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}
