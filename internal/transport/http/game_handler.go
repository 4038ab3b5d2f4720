package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/scoring"
)

const maxBodyBytes = 1 << 20

// GameHandler exposes the player-facing use cases.
type GameHandler struct {
	service *app.GameService
	log     *zap.Logger
}

func NewGameHandler(service *app.GameService, log *zap.Logger) *GameHandler {
	return &GameHandler{service: service, log: log}
}

func (h *GameHandler) Routes(r chi.Router) {
	r.Get("/questions", h.Questions)
	r.Post("/rounds/one/check", h.CheckRoundOne)
	r.Get("/rounds/one/{id}/answer", h.RoundOneAnswer)
	r.Post("/rounds/two/check", h.CheckRoundTwo)
	r.Post("/submit", h.Submit)
	r.Get("/leaderboard", h.Leaderboard)
}

func (h *GameHandler) Questions(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.Questions(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

type roundOneCheckRequest struct {
	QuestionID     json.RawMessage `json:"questionId"`
	SelectedOption json.RawMessage `json:"selectedOption"`
}

func (h *GameHandler) CheckRoundOne(w http.ResponseWriter, r *http.Request) {
	var req roundOneCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	id, ok := scoring.DecodeQuestionID(req.QuestionID)
	if !ok {
		writeDomainError(w, r, h.log, domain.ErrInvalidRoundOneQuestionID)
		return
	}
	var option string
	_ = json.Unmarshal(req.SelectedOption, &option)

	res, err := h.service.CheckRoundOne(r.Context(), id, domain.Side(option))
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *GameHandler) RoundOneAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDomainError(w, r, h.log, domain.ErrInvalidRoundOneQuestionID)
		return
	}
	side, err := h.service.RoundOneCorrectOption(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.Side{"correctOption": side})
}

type roundTwoCheckRequest struct {
	QuestionID           json.RawMessage `json:"questionId"`
	SelectedCriterionIDs json.RawMessage `json:"selectedCriterionIds"`
}

func (h *GameHandler) CheckRoundTwo(w http.ResponseWriter, r *http.Request) {
	var req roundTwoCheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	id, ok := scoring.DecodeQuestionID(req.QuestionID)
	if !ok {
		writeDomainError(w, r, h.log, domain.ErrInvalidQuestionID)
		return
	}
	ids, invalidType, err := scoring.DecodeCriterionIDs(req.SelectedCriterionIDs)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	res, err := h.service.CheckRoundTwo(r.Context(), domain.RoundTwoAnswer{
		QuestionID:           id,
		SelectedCriterionIDs: ids,
		InvalidIDType:        invalidType,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type submitResponse struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Message  string `json:"message"`
}

func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeDomainError(w, r, h.log, domain.ErrInvalidPayload)
		return
	}
	score, err := h.service.SubmitJSON(r.Context(), body)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Score: score.Score, MaxScore: score.MaxScore, Message: "submission_saved"})
}

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	UpdatedAt   string                    `json:"updatedAt"`
}

func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{
		Leaderboard: lb.Entries,
		UpdatedAt:   lb.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
