package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"yashubustudio/yogapose/recommender"
)

const (
	logDebounceInterval = 150 * time.Millisecond
	recommendTimeout    = 10 * time.Second

	windowTitle     = "🧘 Yoga Pose Recommender"
	headingText     = "🧘‍♀️ Yoga Pose Generator Based on Pain Description"
	languagePrompt  = "🌐 Choose Your Language / अपनी भाषा चुनें / మీ భాషను ఎంచుకోండి"
	fitnessPrompt   = "🏋️ Fitness Level"
	queryPrompt     = "📝 Describe your pain or discomfort (any language)"
	findButtonText  = "🔍 Find Yoga Poses"
	imageLinkText   = "🖼️ Click for Pose Image"
	helpfulQuestion = "Was this pose helpful?"
)

type uiState struct {
	service    *recommender.Service
	cfg        recommender.Config
	configPath string
	feedback   *recommender.FeedbackSession
	logger     zerolog.Logger
	logs       *LogBuffer

	w           fyne.Window
	langSelect  *widget.Select
	levelSelect *widget.Select
	input       *widget.Entry
	findBtn     *widget.Button
	status      *widget.Label
	hint        *widget.Label
	results     *fyne.Container
	log         *widget.Entry
	logBind     binding.String

	stop chan struct{}
	once sync.Once
}

func buildUI(a fyne.App, svc *recommender.Service, opts Options) *uiState {
	u := &uiState{
		service:    svc,
		cfg:        svc.Config(),
		configPath: opts.ConfigPath,
		feedback:   recommender.NewFeedbackSession(),
		logger:     opts.Logger.With().Str("component", "ui").Logger(),
		logs:       opts.Logs,
		stop:       make(chan struct{}),
	}
	u.w = a.NewWindow(windowTitle)

	u.langSelect = widget.NewSelect(languageOptions(), func(string) { u.onLanguageChanged() })
	u.langSelect.SetSelected(string(u.cfg.DefaultLanguage))
	u.levelSelect = widget.NewSelect(fitnessOptions(), func(string) { u.onFitnessChanged() })
	u.levelSelect.SetSelected(string(u.cfg.DefaultFitness))

	u.input = widget.NewEntry()
	u.input.SetPlaceHolder("e.g. my lower back hurts after sitting")
	u.input.OnSubmitted = func(string) { u.onFind() }

	u.findBtn = widget.NewButtonWithIcon(findButtonText, theme.SearchIcon(), func() { u.onFind() })
	u.findBtn.Importance = widget.HighImportance

	u.status = widget.NewLabel("")
	u.status.Wrapping = fyne.TextWrapWord
	u.hint = widget.NewLabel("")
	u.hint.Wrapping = fyne.TextWrapWord
	u.updateHint()

	u.results = container.NewVBox()

	u.logBind = binding.NewString()
	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("Log")
	u.log.Disable()
	if u.logs != nil {
		u.flushLog()
		go u.logUpdateLoop()
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle(headingText, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(languagePrompt),
		u.langSelect,
		widget.NewLabel(fitnessPrompt),
		u.levelSelect,
		widget.NewLabel(queryPrompt),
		u.input,
		u.findBtn,
		u.hint,
		widget.NewSeparator(),
		u.status,
	)
	logPane := container.NewBorder(
		widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, u.log,
	)
	left := container.NewVSplit(form, logPane)
	left.Offset = 0.7

	split := container.NewHSplit(left, container.NewVScroll(u.results))
	split.Offset = 0.4

	u.w.SetContent(split)
	u.w.SetOnClosed(u.close)
	u.w.Resize(fyne.NewSize(1100, 760))
	return u
}

func languageOptions() []string {
	langs := recommender.Languages()
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = string(l)
	}
	return out
}

func fitnessOptions() []string {
	levels := recommender.FitnessLevels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}

func (u *uiState) language() recommender.Language {
	lang, err := recommender.ParseLanguage(u.langSelect.Selected)
	if err != nil {
		return u.cfg.DefaultLanguage
	}
	return lang
}

func (u *uiState) fitness() recommender.FitnessLevel {
	lvl, err := recommender.ParseFitnessLevel(u.levelSelect.Selected)
	if err != nil {
		return u.cfg.DefaultFitness
	}
	return lvl
}

func (u *uiState) onLanguageChanged() {
	lang := u.language()
	if u.hint != nil {
		u.updateHint()
	}
	if lang == u.cfg.DefaultLanguage {
		return
	}
	u.cfg.DefaultLanguage = lang
	u.persistConfig()
}

func (u *uiState) onFitnessChanged() {
	lvl := u.fitness()
	if lvl == u.cfg.DefaultFitness {
		return
	}
	u.cfg.DefaultFitness = lvl
	u.persistConfig()
}

// persistConfig remembers the last selections. Failures are logged only.
func (u *uiState) persistConfig() {
	if u.configPath == "" {
		return
	}
	if err := recommender.SaveConfig(u.configPath, u.cfg); err != nil {
		u.logger.Warn().Err(err).Str("path", u.configPath).Msg("save config failed")
		return
	}
	u.logger.Debug().
		Str("language", string(u.cfg.DefaultLanguage)).
		Str("fitness", string(u.cfg.DefaultFitness)).
		Msg("selection saved")
}

func (u *uiState) updateHint() {
	lang := u.language()
	labels := u.service.PainLabels()
	for i, l := range labels {
		labels[i] = recommender.LocalizeLabel(l, lang)
	}
	u.hint.SetText("Pain areas: " + strings.Join(labels, ", "))
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.findBtn.Disable()
			return
		}
		u.findBtn.Enable()
	})
}

func (u *uiState) onFind() {
	req := recommender.Request{
		Query:    u.input.Text,
		Language: u.language(),
		Fitness:  u.fitness(),
	}
	u.setBusy(true)
	go func() {
		defer u.setBusy(false)
		res, err := u.search(req)
		fyne.Do(func() { u.showResult(res, err) })
	}()
}

func (u *uiState) search(req recommender.Request) (recommender.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
	defer cancel()
	return u.service.Recommend(ctx, req)
}

// showResult renders res. It must run on the UI goroutine.
func (u *uiState) showResult(res recommender.Result, err error) {
	u.results.RemoveAll()
	switch {
	case errors.Is(err, recommender.ErrEmptyQuery):
		u.setStatus(recommender.MessageEmptyQuery, widget.WarningImportance)
	case err != nil:
		u.logger.Error().Err(err).Msg("recommend failed")
		u.setStatus(fmt.Sprintf("Error: %v", err), widget.DangerImportance)
	case !res.Found():
		u.setStatus(res.Message, widget.WarningImportance)
	default:
		u.setStatus(res.Message, widget.SuccessImportance)
		for _, e := range res.Entries {
			u.results.Add(u.poseCard(e))
		}
	}
	u.results.Refresh()
}

func (u *uiState) setStatus(text string, imp widget.Importance) {
	u.status.Importance = imp
	u.status.SetText(text)
}

func (u *uiState) poseCard(e recommender.DisplayEntry) fyne.CanvasObject {
	instructions := widget.NewRichTextFromMarkdown(fmt.Sprintf("**%s** %s", e.InstructionsHeading, e.Instructions))
	instructions.Wrapping = fyne.TextWrapWord

	var link fyne.CanvasObject = widget.NewLabel(e.ImageURL)
	if parsed, err := url.Parse(e.ImageURL); err == nil {
		link = widget.NewHyperlink(imageLinkText, parsed)
	}

	var up, down *widget.Button
	up = widget.NewButton("👍", func() { u.rate(e.FeedbackKey, recommender.RatingUp, up, down) })
	down = widget.NewButton("👎", func() { u.rate(e.FeedbackKey, recommender.RatingDown, up, down) })
	paintRating(u.feedback.Get(e.FeedbackKey), up, down)

	return widget.NewCard("🧘 "+e.Pose, "", container.NewVBox(
		instructions,
		link,
		widget.NewLabelWithStyle(helpfulQuestion, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(up, down),
	))
}

func (u *uiState) rate(key string, r recommender.Rating, up, down *widget.Button) {
	got := u.feedback.Toggle(key, r)
	paintRating(got, up, down)
	u.logger.Info().
		Str("session", u.feedback.ID()).
		Str("key", key).
		Str("rating", got.String()).
		Msg("feedback")
}

func paintRating(r recommender.Rating, up, down *widget.Button) {
	up.Importance = widget.MediumImportance
	down.Importance = widget.MediumImportance
	switch r {
	case recommender.RatingUp:
		up.Importance = widget.SuccessImportance
	case recommender.RatingDown:
		down.Importance = widget.DangerImportance
	}
	up.Refresh()
	down.Refresh()
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.stop:
			timer.Stop()
			return
		case <-u.logs.Updates():
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	_ = u.logBind.Set(u.logs.String())
}

func (u *uiState) close() {
	u.once.Do(func() { close(u.stop) })
}
