package recommender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffpose,pain_area,instructions_english,instructions_hindi,instructions_telugu,difficulty\n" +
	"Cat-Cow,Back,Arch and round your spine.,रीढ़ को मोड़ें।,వెన్నెముకను వంచండి.,Beginner\n" +
	"Neck Roll,Neck,Roll your head slowly.,सिर घुमाएँ।,తల తిప్పండి.,Beginner\n" +
	"Child's Pose,back,Sit back on your heels.,एड़ियों पर बैठें।,మడమలపై కూర్చోండి.,Beginner\n" +
	"\n" +
	"Cat-Cow,Back,Repeat slowly.,धीरे दोहराएँ।,నెమ్మదిగా పునరావృతం చేయండి.,Intermediate\n"

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(writeDataset(t, "poses.csv", sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	recs := ds.Records()
	assert.Equal(t, "Cat-Cow", recs[0].Pose)
	assert.Equal(t, "Arch and round your spine.", recs[0].InstructionsFor(English))
	assert.Equal(t, "వెన్నెముకను వంచండి.", recs[0].InstructionsFor(Telugu))
	assert.Equal(t, "Beginner", recs[0].Difficulty)
	assert.Equal(t, []string{"Back", "Neck"}, ds.PainLabels())
}

func TestLoadDataset_TSV(t *testing.T) {
	tsv := strings.ReplaceAll("pose,pain_area,instructions_english,instructions_hindi,instructions_telugu\nBridge,Hips,Lift hips.,कूल्हे उठाएँ।,తుంటిని ఎత్తండి.\n", ",", "\t")
	ds, err := LoadDataset(writeDataset(t, "poses.tsv", tsv))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hips"}, ds.PainLabels())
}

func TestLoadDataset_HeaderCaseInsensitive(t *testing.T) {
	csv := "Pose,PAIN_AREA,Instructions_English,instructions_hindi,instructions_telugu\nBridge,Hips,Lift hips.,a,b\n"
	ds, err := ReadDataset(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadDataset_MissingColumns(t *testing.T) {
	path := writeDataset(t, "broken.csv", "pose,pain_area,instructions_english\nBridge,Hips,Lift hips.\n")
	_, err := LoadDataset(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{ColumnInstructionsHindi, ColumnInstructionsTelugu}, schemaErr.Missing)
	assert.Equal(t, path, schemaErr.Path)
}

func TestLoadDataset_EmptyAndMissingFile(t *testing.T) {
	_, err := LoadDataset(writeDataset(t, "empty.csv", ""))
	assert.ErrorIs(t, err, ErrSchema)

	_, err = LoadDataset(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDataset_Immutable(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	recs := ds.Records()
	recs[0].Pose = "changed"
	recs[0].Instructions[English] = "changed"
	labels := ds.PainLabels()
	labels[0] = "changed"

	again, ok := ds.Record(0)
	require.True(t, ok)
	assert.Equal(t, "Cat-Cow", again.Pose)
	assert.Equal(t, "Arch and round your spine.", again.InstructionsFor(English))
	assert.Equal(t, "Back", ds.PainLabels()[0])

	_, ok = ds.Record(99)
	assert.False(t, ok)
}
