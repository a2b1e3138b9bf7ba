package recommender

import "errors"

var (
	// ErrInvalidInput is the parent of every input validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyQuery is returned when the pain description is blank.
	ErrEmptyQuery = newInputError("empty query")
	// ErrNoCandidates is returned when there is no label to resolve against.
	ErrNoCandidates = newInputError("no candidate labels")
	// ErrUnknownLanguage is returned by ParseLanguage for unsupported selections.
	ErrUnknownLanguage = newInputError("unknown language")
	// ErrUnknownFitness is returned by ParseFitnessLevel for unsupported selections.
	ErrUnknownFitness = newInputError("unknown fitness level")
	// ErrSchema marks datasets that cannot be used at all.
	ErrSchema = errors.New("dataset schema error")
)

// inputError keeps the message of a validation error while matching ErrInvalidInput.
type inputError struct{ msg string }

func newInputError(msg string) error { return &inputError{msg: msg} }

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return ErrInvalidInput }

// Status describes the outcome of a recommendation.
type Status string

const (
	// StatusFound means at least one pose matched the resolved label.
	StatusFound Status = "found"
	// StatusNoMatch means the resolved label has no poses in the dataset.
	StatusNoMatch Status = "no_match"
)

// PoseRecord is one row of the pose table.
type PoseRecord struct {
	Pose         string              `json:"pose"`
	PainArea     string              `json:"pain_area"`
	Instructions map[Language]string `json:"instructions"`
	// Difficulty is read when the column exists. Filtering ignores it.
	Difficulty string `json:"difficulty,omitempty"`
}

// InstructionsFor returns the instructions in lang, or an empty string.
func (r PoseRecord) InstructionsFor(lang Language) string {
	return r.Instructions[lang]
}

// PoseMatch is a record selected by FilterPoses together with its row index.
type PoseMatch struct {
	Row    int
	Record PoseRecord
}

// DisplayEntry is everything needed to show one recommended pose.
type DisplayEntry struct {
	Row                 int    `json:"row"`
	Pose                string `json:"pose"`
	InstructionsHeading string `json:"instructions_heading"`
	Instructions        string `json:"instructions"`
	ImageURL            string `json:"image_url"`
	FeedbackKey         string `json:"feedback_key"`
}

// Request is a single user interaction.
type Request struct {
	Query    string       `json:"query"`
	Language Language     `json:"language"`
	Fitness  FitnessLevel `json:"fitness_level"`
}

// Result is the display data produced for a Request.
type Result struct {
	Query          string         `json:"query"`
	Label          string         `json:"label"`
	LocalizedLabel string         `json:"localized_label"`
	Language       Language       `json:"language"`
	Fitness        FitnessLevel   `json:"fitness_level"`
	Status         Status         `json:"status"`
	Message        string         `json:"message"`
	Entries        []DisplayEntry `json:"entries"`
}

// Found reports whether the result has poses to show.
func (r Result) Found() bool {
	return r.Status == StatusFound && len(r.Entries) > 0
}
