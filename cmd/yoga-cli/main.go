// Command yoga-cli recommends yoga poses for a pain description from the terminal
// and can serve the JSON API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"yashubustudio/yogapose/recommender"
)

var (
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for a terminal user. An empty query gets the same
// warning the other front ends show.
func reportError(w io.Writer, err error) {
	if errors.Is(err, recommender.ErrEmptyQuery) {
		fmt.Fprintln(w, warnStyle.Render(recommender.MessageEmptyQuery))
		return
	}
	fmt.Fprintln(w, errorStyle.Render("yoga-cli: "+err.Error()))
}
