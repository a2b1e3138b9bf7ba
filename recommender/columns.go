package recommender

// Column names of the pose table. Header matching is case-insensitive.
const (
	ColumnPose                = "pose"
	ColumnPainArea            = "pain_area"
	ColumnInstructionsEnglish = "instructions_english"
	ColumnInstructionsHindi   = "instructions_hindi"
	ColumnInstructionsTelugu  = "instructions_telugu"
)

// RequiredColumns lists the headers a dataset must carry.
func RequiredColumns() []string {
	return []string{
		ColumnPose,
		ColumnPainArea,
		ColumnInstructionsEnglish,
		ColumnInstructionsHindi,
		ColumnInstructionsTelugu,
	}
}

// instructionColumns maps each language to its instructions header.
var instructionColumns = map[Language]string{
	English: ColumnInstructionsEnglish,
	Hindi:   ColumnInstructionsHindi,
	Telugu:  ColumnInstructionsTelugu,
}

// difficultyCandidates are accepted headers for the optional difficulty column.
var difficultyCandidates = []string{"difficulty", "level", "fitness_level"}
