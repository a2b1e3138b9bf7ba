package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/yogapose/recommender"
)

const testCSV = "pose,pain_area,instructions_english,instructions_hindi,instructions_telugu\n" +
	"Cat-Cow,Back,Arch and round your spine.,रीढ़ को मोड़ें।,వెన్నెముకను వంచండి.\n" +
	"Neck Roll,Neck,Roll your head slowly.,सिर घुमाएँ।,తల తిప్పండి.\n"

type cliRun struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	err    error
}

func runCLI(t *testing.T, config string, args ...string) *cliRun {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "poses.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(testCSV), 0o600))
	cfgPath := filepath.Join(dir, "config.yaml")
	if config != "" {
		require.NoError(t, os.WriteFile(cfgPath, []byte(config), 0o600))
	}

	r := &cliRun{}
	cmd := newRootCmd(&r.stdout, &r.stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--dataset", dataset, "--log-level", "error"}, args...))
	r.err = cmd.Execute()
	return r
}

func TestRecommendPlain(t *testing.T) {
	r := runCLI(t, "", "recommend", "--plain", "my", "back", "hurts")
	require.NoError(t, r.err)

	out := r.stdout.String()
	assert.Contains(t, out, `✅ Yoga Poses for "my back hurts" (mapped to: Back):`)
	assert.Contains(t, out, "### 🧘 Cat-Cow")
	assert.Contains(t, out, "**Instructions:** Arch and round your spine.")
	assert.Contains(t, out, "Cat-Cow+yoga+pose")
	assert.NotContains(t, out, "Neck Roll")
}

func TestRecommendRendered(t *testing.T) {
	r := runCLI(t, "", "recommend", "--lang", "te", "neck")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout.String(), "Neck Roll")
	assert.Contains(t, r.stdout.String(), "తల తిప్పండి.")
}

func TestRecommendEmptyQuery(t *testing.T) {
	r := runCLI(t, "", "recommend", "--plain", "  ")
	require.ErrorIs(t, r.err, recommender.ErrEmptyQuery)

	var msg bytes.Buffer
	reportError(&msg, r.err)
	assert.Contains(t, msg.String(), recommender.MessageEmptyQuery)
}

func TestRecommendNoMatch(t *testing.T) {
	r := runCLI(t, "candidate_labels: [Back, Knees]\n", "recommend", "--plain", "sore", "knees")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout.String(), recommender.MessageNoMatch)
	assert.NotContains(t, r.stdout.String(), "###")
}

func TestRecommendExplain(t *testing.T) {
	r := runCLI(t, "", "recommend", "--plain", "--explain", "stiff", "neck")
	require.NoError(t, r.err)
	out := r.stdout.String()
	assert.Contains(t, out, "similarity")
	assert.Regexp(t, `Neck\s+[0-9.]+\s+\*`, out)
}

func TestRecommendBadFlags(t *testing.T) {
	r := runCLI(t, "", "recommend", "--lang", "Klingon", "neck")
	assert.ErrorIs(t, r.err, recommender.ErrUnknownLanguage)

	r = runCLI(t, "", "recommend", "--level", "Expert", "neck")
	assert.ErrorIs(t, r.err, recommender.ErrUnknownFitness)
}

func TestLabels(t *testing.T) {
	r := runCLI(t, "", "labels", "--lang", "Hindi")
	require.NoError(t, r.err)
	assert.Regexp(t, `Back\s+पीठ`, r.stdout.String())
	assert.Regexp(t, `Neck\s+गर्दन`, r.stdout.String())
}

func TestMissingDataset(t *testing.T) {
	r := &cliRun{}
	cmd := newRootCmd(&r.stdout, &r.stderr)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--dataset", filepath.Join(t.TempDir(), "none.csv"), "labels"})
	err := cmd.Execute()
	require.Error(t, err)

	var msg bytes.Buffer
	reportError(&msg, err)
	assert.Contains(t, msg.String(), "load dataset")
}
