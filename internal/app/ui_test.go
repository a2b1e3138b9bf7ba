package app

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/yogapose/recommender"
)

func testService(t *testing.T, candidates ...string) *recommender.Service {
	t.Helper()
	ds := recommender.NewDataset([]recommender.PoseRecord{
		{
			Pose:     "Cat-Cow",
			PainArea: "Back",
			Instructions: map[recommender.Language]string{
				recommender.English: "Arch and round your spine.",
				recommender.Hindi:   "रीढ़ को मोड़ें।",
				recommender.Telugu:  "వెన్నెముకను వంచండి.",
			},
		},
		{
			Pose:     "Neck Roll",
			PainArea: "Neck",
			Instructions: map[recommender.Language]string{
				recommender.English: "Roll your head slowly.",
			},
		},
	})
	cfg := recommender.DefaultConfig()
	cfg.CandidateLabels = candidates
	svc, err := recommender.NewService(ds, cfg, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func newTestUI(t *testing.T, svc *recommender.Service, opts Options) *uiState {
	t.Helper()
	a := test.NewTempApp(t)
	opts.Logger = zerolog.Nop()
	u := buildUI(a, svc, opts)
	t.Cleanup(u.close)
	return u
}

func poseButtons(t *testing.T, card fyne.CanvasObject) (up, down *widget.Button) {
	t.Helper()
	c, ok := card.(*widget.Card)
	require.True(t, ok)
	body := c.Content.(*fyne.Container)
	row := body.Objects[len(body.Objects)-1].(*fyne.Container)
	return row.Objects[0].(*widget.Button), row.Objects[1].(*widget.Button)
}

func TestUI_ShowResultFound(t *testing.T) {
	u := newTestUI(t, testService(t), Options{})
	assert.Equal(t, "English", u.langSelect.Selected)
	assert.Equal(t, "Beginner", u.levelSelect.Selected)

	u.input.SetText("my back hurts")
	res, err := u.search(recommender.Request{Query: u.input.Text, Language: u.language(), Fitness: u.fitness()})
	u.showResult(res, err)

	require.NoError(t, err)
	assert.Equal(t, widget.SuccessImportance, u.status.Importance)
	assert.Equal(t, `✅ Yoga Poses for "my back hurts" (mapped to: Back):`, u.status.Text)
	require.Len(t, u.results.Objects, 1)
	card := u.results.Objects[0].(*widget.Card)
	assert.Equal(t, "🧘 Cat-Cow", card.Title)
}

func TestUI_ShowResultEmptyQuery(t *testing.T) {
	u := newTestUI(t, testService(t), Options{})

	res, err := u.search(recommender.Request{Query: "  "})
	u.showResult(res, err)

	assert.Equal(t, widget.WarningImportance, u.status.Importance)
	assert.Equal(t, recommender.MessageEmptyQuery, u.status.Text)
	assert.Empty(t, u.results.Objects)
}

func TestUI_ShowResultNoMatch(t *testing.T) {
	u := newTestUI(t, testService(t, "Back", "Knees"), Options{})

	res, err := u.search(recommender.Request{Query: "sore knees", Language: recommender.English})
	require.NoError(t, err)
	u.showResult(res, err)

	assert.Equal(t, widget.WarningImportance, u.status.Importance)
	assert.Equal(t, recommender.MessageNoMatch, u.status.Text)
	assert.Empty(t, u.results.Objects)
}

func TestUI_FeedbackToggle(t *testing.T) {
	u := newTestUI(t, testService(t), Options{})
	res, err := u.search(recommender.Request{Query: "neck", Language: recommender.English})
	require.NoError(t, err)
	u.showResult(res, err)
	require.Len(t, u.results.Objects, 1)

	key := res.Entries[0].FeedbackKey
	assert.Equal(t, "feedback_Neck Roll_1", key)

	up, down := poseButtons(t, u.results.Objects[0])
	test.Tap(up)
	assert.Equal(t, recommender.RatingUp, u.feedback.Get(key))
	assert.Equal(t, widget.SuccessImportance, up.Importance)

	test.Tap(down)
	assert.Equal(t, recommender.RatingDown, u.feedback.Get(key))
	assert.Equal(t, widget.MediumImportance, up.Importance)
	assert.Equal(t, widget.DangerImportance, down.Importance)

	test.Tap(down)
	assert.Equal(t, recommender.RatingNone, u.feedback.Get(key))

	// ratings survive a re-render of the same result
	test.Tap(up)
	u.showResult(res, nil)
	up, _ = poseButtons(t, u.results.Objects[0])
	assert.Equal(t, widget.SuccessImportance, up.Importance)
}

func TestUI_SelectionPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	u := newTestUI(t, testService(t), Options{ConfigPath: path})

	u.langSelect.SetSelected("Hindi")
	u.levelSelect.SetSelected("Advanced")

	cfg, err := recommender.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, recommender.Hindi, cfg.DefaultLanguage)
	assert.Equal(t, recommender.Advanced, cfg.DefaultFitness)
	assert.Contains(t, u.hint.Text, "पीठ")
	assert.Contains(t, u.hint.Text, "गर्दन")
}

func TestUI_LogPane(t *testing.T) {
	logs := NewLogBuffer(10)
	_, _ = logs.Write([]byte("12:00:00 INF service ready\n"))
	u := newTestUI(t, testService(t), Options{Logs: logs})

	got, err := u.logBind.Get()
	require.NoError(t, err)
	assert.Equal(t, "12:00:00 INF service ready", got)

	_, _ = logs.Write([]byte("12:00:01 INF feedback\n"))
	u.flushLog()
	got, err = u.logBind.Get()
	require.NoError(t, err)
	assert.Contains(t, got, "feedback")
}

func TestFatalWindow(t *testing.T) {
	a := test.NewTempApp(t)
	err := &recommender.SchemaError{Path: "poses.csv", Missing: []string{"instructions_hindi"}}

	w := fatalWindow(a, err)
	msg, ok := w.Content().(*widget.Label)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "instructions_hindi")
	assert.Equal(t, widget.DangerImportance, msg.Importance)
}
