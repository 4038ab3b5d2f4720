package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/authoring"
)

// AdminHandler exposes authoring and cache control. Every route takes HTTP Basic credentials.
type AdminHandler struct {
	service *app.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service *app.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, log: log}
}

func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/verify", h.Verify)
	r.Post("/questions", h.AddRoundTwoQuestion)
	r.Post("/questions/bulk", h.AddRoundTwoQuestionsBulk)
	r.Post("/round-one/questions", h.AddRoundOneQuestion)
	r.Post("/round-one/questions/bulk", h.AddRoundOneQuestionsBulk)
	r.Post("/revalidate", h.Revalidate)
	r.Post("/users", h.AddAdmin)
}

func credentials(r *http.Request) authoring.Credentials {
	username, password, _ := r.BasicAuth()
	return authoring.Credentials{Username: username, Password: password}
}

func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Authenticate(r.Context(), credentials(r)); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin_verified"})
}

func (h *AdminHandler) AddRoundTwoQuestion(w http.ResponseWriter, r *http.Request) {
	var in authoring.RoundTwoInput
	if err := decodeBody(r, &in); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	id, err := h.service.AddRoundTwoQuestion(r.Context(), credentials(r), in)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "question_added", "questionId": id})
}

func (h *AdminHandler) AddRoundTwoQuestionsBulk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Questions []authoring.RoundTwoInput `json:"questions"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	n, err := h.service.AddRoundTwoQuestionsBulk(r.Context(), credentials(r), body.Questions)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "questions_added", "count": n})
}

func (h *AdminHandler) AddRoundOneQuestion(w http.ResponseWriter, r *http.Request) {
	var in authoring.RoundOneInput
	if err := decodeBody(r, &in); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	id, err := h.service.AddRoundOneQuestion(r.Context(), credentials(r), in)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "question_added", "questionId": id})
}

func (h *AdminHandler) AddRoundOneQuestionsBulk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Questions []authoring.RoundOneInput `json:"questions"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	n, err := h.service.AddRoundOneQuestionsBulk(r.Context(), credentials(r), body.Questions)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "questions_added", "count": n})
}

func (h *AdminHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target string `json:"target"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	target, err := h.service.Revalidate(r.Context(), credentials(r), body.Target)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache_revalidated", "target": target})
}

func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	id, err := h.service.AddAdmin(r.Context(), credentials(r), body.Username, body.Password)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "admin_added", "adminId": id})
}
