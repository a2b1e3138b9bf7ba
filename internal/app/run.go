// Package app is the fyne desktop front end of the recommender.
package app

import (
	"errors"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"yashubustudio/yogapose/recommender"
)

const fyneAppID = "studio.yashubu.yogapose"

// Options configures the desktop UI.
type Options struct {
	// ConfigPath receives the last language and fitness selection. Empty disables saving.
	ConfigPath string
	// Logs feeds the log pane. The pane stays empty when nil.
	Logs   *LogBuffer
	Logger zerolog.Logger
}

// Run starts the desktop UI and blocks until the window is closed.
func Run(svc *recommender.Service, opts Options) error {
	if svc == nil {
		return errors.New("app: service is required")
	}
	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, opts)
	u.logger.Info().Str("language", string(u.cfg.DefaultLanguage)).Msg("window ready")
	u.w.ShowAndRun()
	return nil
}

// ShowFatal shows err in a window of its own and blocks until it is closed.
// It is used when the recommender cannot start at all.
func ShowFatal(err error) {
	a := fyneapp.NewWithID(fyneAppID)
	fatalWindow(a, err).ShowAndRun()
}

func fatalWindow(a fyne.App, err error) fyne.Window {
	w := a.NewWindow(windowTitle)
	msg := widget.NewLabel(err.Error())
	msg.Wrapping = fyne.TextWrapWord
	msg.Importance = widget.DangerImportance
	w.SetContent(msg)
	w.Resize(fyne.NewSize(640, 240))
	dialog.ShowError(err, w)
	return w
}
