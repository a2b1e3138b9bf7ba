package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"yashubustudio/yogapose/recommender"
)

// Error kinds reported in the "kind" field of error responses.
const (
	kindBadRequest      = "bad_request"
	kindEmptyQuery      = "empty_query"
	kindUnknownLanguage = "unknown_language"
	kindUnknownFitness  = "unknown_fitness"
	kindInternal        = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Labels  int    `json:"labels"`
}

type labelEntry struct {
	Label     string `json:"label"`
	Localized string `json:"localized"`
}

type labelsResponse struct {
	Language recommender.Language `json:"language"`
	Labels   []labelEntry         `json:"labels"`
}

type recommendRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
	Fitness  string `json:"fitness_level"`
	Explain  bool   `json:"explain"`
}

type explanation struct {
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"scores"`
}

type recommendResponse struct {
	recommender.Result
	Markdown    string       `json:"markdown"`
	Explanation *explanation `json:"explanation,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Records: s.svc.Dataset().Len(),
		Labels:  len(s.svc.PainLabels()),
	})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	lang := s.svc.Config().DefaultLanguage
	if raw := r.URL.Query().Get("lang"); raw != "" {
		parsed, err := recommender.ParseLanguage(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, kindUnknownLanguage, err)
			return
		}
		lang = parsed
	}
	labels := s.svc.PainLabels()
	out := labelsResponse{Language: lang, Labels: make([]labelEntry, len(labels))}
	for i, l := range labels {
		out.Labels[i] = labelEntry{Label: l, Localized: recommender.LocalizeLabel(l, lang)}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, kindBadRequest, err)
		return
	}

	req := recommender.Request{Query: body.Query}
	if strings.TrimSpace(body.Language) != "" {
		lang, err := recommender.ParseLanguage(body.Language)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, kindUnknownLanguage, err)
			return
		}
		req.Language = lang
	}
	if strings.TrimSpace(body.Fitness) != "" {
		lvl, err := recommender.ParseFitnessLevel(body.Fitness)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, kindUnknownFitness, err)
			return
		}
		req.Fitness = lvl
	}

	res, err := s.svc.Recommend(r.Context(), req)
	switch {
	case errors.Is(err, recommender.ErrEmptyQuery):
		recordRecommendation(kindEmptyQuery)
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: recommender.MessageEmptyQuery, Kind: kindEmptyQuery})
		return
	case errors.Is(err, recommender.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, kindBadRequest, err)
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("recommend failed")
		s.respondError(w, http.StatusInternalServerError, kindInternal, errors.New("internal error"))
		return
	}

	recordRecommendation(string(res.Status))
	out := recommendResponse{Result: res, Markdown: recommender.RenderMarkdown(res)}
	if body.Explain {
		if exp, err := s.explain(body.Query); err == nil {
			out.Explanation = exp
		}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) explain(query string) (*explanation, error) {
	res, err := s.svc.Explain(query)
	if err != nil {
		return nil, err
	}
	labels := s.svc.PainLabels()
	exp := &explanation{Score: res.Score, Scores: make(map[string]float64, len(labels))}
	for i, l := range labels {
		if i < len(res.Scores) {
			exp.Scores[l] = res.Scores[i]
		}
	}
	return exp, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug().Err(err).Msg("write response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, kind string, err error) {
	s.respondJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}
