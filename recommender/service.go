package recommender

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// User facing messages.
const (
	MessageEmptyQuery = "❗ Please describe your pain for better recommendations."
	MessageNoMatch    = "❌ No yoga poses found for the pain area. Try different description."
)

// Service resolves pain descriptions against an immutable dataset.
type Service struct {
	ds     *Dataset
	cfg    Config
	links  LinkBuilder
	labels []string
	logger zerolog.Logger
}

// NewService constructs a service over ds.
func NewService(ds *Dataset, cfg Config, logger zerolog.Logger) (*Service, error) {
	if ds == nil {
		return nil, errors.New("dataset is required")
	}
	cfg.ApplyDefaults()
	labels := ds.PainLabels()
	if len(cfg.CandidateLabels) > 0 {
		labels = uniqueFolded(cfg.CandidateLabels)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no pain areas to match against", ErrSchema)
	}
	s := &Service{
		ds:     ds,
		cfg:    cfg,
		links:  NewLinkBuilder(cfg.ImageSearch),
		labels: labels,
		logger: logger.With().Str("component", "recommender").Logger(),
	}
	s.logger.Info().Int("records", ds.Len()).Strs("labels", labels).Msg("service ready")
	return s, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// Dataset returns the pose table.
func (s *Service) Dataset() *Dataset {
	return s.ds
}

// PainLabels returns the labels queries are resolved against.
func (s *Service) PainLabels() []string {
	return cloneStrings(s.labels)
}

// Recommend resolves req.Query to a pain area and renders its poses.
// A blank query returns ErrEmptyQuery. A label without poses is reported
// through Result.Status, not as an error.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	lang := req.Language
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	if !lang.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, req.Language)
	}
	fitness := req.Fitness
	if fitness == "" {
		fitness = s.cfg.DefaultFitness
	}

	query := NormalizeText(req.Query)
	if query == "" {
		s.logger.Warn().Msg("empty query")
		return Result{}, ErrEmptyQuery
	}

	res, err := s.resolve(query)
	if err != nil {
		return Result{}, err
	}
	// TODO: filter on PoseRecord.Difficulty once difficulty values map onto FitnessLevel.
	s.logger.Debug().
		Str("query", query).
		Str("label", res.Label).
		Float64("score", res.Score).
		Str("fitness", string(fitness)).
		Msg("resolved pain area")

	out := Result{
		Query:          req.Query,
		Label:          res.Label,
		LocalizedLabel: LocalizeLabel(res.Label, lang),
		Language:       lang,
		Fitness:        fitness,
	}
	matches := FilterPoses(s.ds, res.Label)
	if len(matches) == 0 {
		out.Status = StatusNoMatch
		out.Message = MessageNoMatch
		s.logger.Info().Str("label", res.Label).Msg("no poses for pain area")
		return out, nil
	}
	out.Status = StatusFound
	out.Entries = RenderEntries(matches, lang, s.links)
	out.Message = fmt.Sprintf("✅ Yoga Poses for \"%s\" (mapped to: %s):", strings.TrimSpace(req.Query), out.LocalizedLabel)
	s.logger.Info().Str("label", res.Label).Int("poses", len(out.Entries)).Msg("recommendation ready")
	return out, nil
}

// Explain returns the similarity of query to every pain label.
func (s *Service) Explain(query string) (Resolution, error) {
	q := NormalizeText(query)
	if q == "" {
		return Resolution{}, ErrEmptyQuery
	}
	return s.resolve(q)
}

// resolve maps a query written as a localized label straight to its canonical
// label when the dataset carries it, and falls back to similarity matching.
func (s *Service) resolve(query string) (Resolution, error) {
	if canonical, ok := CanonicalLabel(query); ok {
		for i, label := range s.labels {
			if EqualFold(label, canonical) {
				scores := make([]float64, len(s.labels))
				scores[i] = 1
				return Resolution{Label: label, Score: 1, Scores: scores}, nil
			}
		}
	}
	return ResolveLabelScored(query, s.labels)
}
