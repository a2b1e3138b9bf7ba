package recommender

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catCowDataset() *Dataset {
	return NewDataset([]PoseRecord{{
		Pose:     "Cat-Cow",
		PainArea: "Back",
		Instructions: map[Language]string{
			English: "Arch and round your spine.",
			Hindi:   "रीढ़ को मोड़ें।",
			Telugu:  "వెన్నెముకను వంచండి.",
		},
	}})
}

func newTestService(t *testing.T, ds *Dataset, cfg Config) *Service {
	t.Helper()
	svc, err := NewService(ds, cfg, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestRecommend_EndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateLabels = []string{"Back", "Knees"}
	svc := newTestService(t, catCowDataset(), cfg)

	res, err := svc.Recommend(context.Background(), Request{Query: "my back hurts", Language: English})
	require.NoError(t, err)

	assert.Equal(t, StatusFound, res.Status)
	assert.True(t, res.Found())
	assert.Equal(t, "Back", res.Label)
	assert.Equal(t, `✅ Yoga Poses for "my back hurts" (mapped to: Back):`, res.Message)
	require.Len(t, res.Entries, 1)

	e := res.Entries[0]
	assert.Equal(t, "Cat-Cow", e.Pose)
	assert.Equal(t, "Instructions:", e.InstructionsHeading)
	assert.Equal(t, "Arch and round your spine.", e.Instructions)
	assert.Contains(t, e.ImageURL, "Cat-Cow+yoga+pose")
	assert.Equal(t, "feedback_Cat-Cow_0", e.FeedbackKey)
}

func TestRecommend_MessageKeepsQueryText(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateLabels = []string{"Back", "Knees"}
	svc := newTestService(t, catCowDataset(), cfg)

	query := "ನನ್ನ\u200cback \"hurts\""
	res, err := svc.Recommend(context.Background(), Request{Query: query, Language: English})
	require.NoError(t, err)

	assert.Equal(t, "Back", res.Label)
	assert.Equal(t, "✅ Yoga Poses for \""+query+"\" (mapped to: Back):", res.Message)
	assert.NotContains(t, res.Message, `\u200c`)
}

func TestRecommend_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLanguage = Telugu
	cfg.DefaultFitness = Advanced
	svc := newTestService(t, catCowDataset(), cfg)

	res, err := svc.Recommend(context.Background(), Request{Query: "back"})
	require.NoError(t, err)
	assert.Equal(t, Telugu, res.Language)
	assert.Equal(t, Advanced, res.Fitness)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "సూచనలు:", res.Entries[0].InstructionsHeading)
	assert.Equal(t, "వెన్నెముకను వంచండి.", res.Entries[0].Instructions)
	assert.Equal(t, "వెనుక భాగం", res.LocalizedLabel)
}

func TestRecommend_EmptyQuery(t *testing.T) {
	svc := newTestService(t, catCowDataset(), DefaultConfig())

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Recommend(context.Background(), Request{Query: q})
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRecommend_NoMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateLabels = []string{"Back", "Knees"}
	svc := newTestService(t, catCowDataset(), cfg)

	res, err := svc.Recommend(context.Background(), Request{Query: "sore knees", Language: Hindi})
	require.NoError(t, err)
	assert.Equal(t, StatusNoMatch, res.Status)
	assert.False(t, res.Found())
	assert.Equal(t, "Knees", res.Label)
	assert.Equal(t, "घुटने", res.LocalizedLabel)
	assert.Equal(t, MessageNoMatch, res.Message)
	assert.Empty(t, res.Entries)
}

func TestRecommend_LocalizedLabelQuery(t *testing.T) {
	svc := newTestService(t, catCowDataset(), DefaultConfig())

	res, err := svc.Recommend(context.Background(), Request{Query: "पीठ", Language: Hindi})
	require.NoError(t, err)
	assert.Equal(t, "Back", res.Label)
	assert.Equal(t, "पीठ", res.LocalizedLabel)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "निर्देश:", res.Entries[0].InstructionsHeading)
	assert.Equal(t, "रीढ़ को मोड़ें।", res.Entries[0].Instructions)
}

func TestRecommend_InvalidLanguage(t *testing.T) {
	svc := newTestService(t, catCowDataset(), DefaultConfig())

	_, err := svc.Recommend(context.Background(), Request{Query: "back", Language: "French"})
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestRecommend_CanceledContext(t *testing.T) {
	svc := newTestService(t, catCowDataset(), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, Request{Query: "back"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommend_MarkdownMatchesEntries(t *testing.T) {
	svc := newTestService(t, catCowDataset(), DefaultConfig())

	res, err := svc.Recommend(context.Background(), Request{Query: "my back hurts"})
	require.NoError(t, err)
	md := RenderMarkdown(res)
	assert.True(t, strings.HasPrefix(md, res.Message))
	assert.Contains(t, md, "### 🧘 Cat-Cow")
	assert.Contains(t, md, res.Entries[0].ImageURL)
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(nil, DefaultConfig(), zerolog.Nop())
	assert.Error(t, err)

	_, err = NewService(NewDataset(nil), DefaultConfig(), zerolog.Nop())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestNewService_CandidateLabelsDeduplicated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateLabels = []string{"Back", " back ", "", "Knees"}
	svc := newTestService(t, catCowDataset(), cfg)
	assert.Equal(t, []string{"Back", "Knees"}, svc.PainLabels())
}

func TestExplain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CandidateLabels = []string{"Neck", "Back"}
	svc := newTestService(t, catCowDataset(), cfg)

	res, err := svc.Explain("my back hurts")
	require.NoError(t, err)
	assert.Equal(t, "Back", res.Label)
	require.Len(t, res.Scores, 2)
	assert.Greater(t, res.Scores[1], res.Scores[0])

	_, err = svc.Explain(" ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
