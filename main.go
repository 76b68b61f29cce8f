package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tuner/internal/app"
	"github.com/llehouerou/tuner/internal/config"
	"github.com/llehouerou/tuner/internal/errmsg"
	"github.com/llehouerou/tuner/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}

	stateMgr, err := state.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpStateOpen, err))
		os.Exit(1)
	}
	defer stateMgr.Close()

	m, err := app.New(cfg, stateMgr)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}
}
