package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"logo-quiz-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

// writeDomainError maps domain error kinds to a status and echoes the stable code.
// Anything else is logged and reported as internal_error.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	code := domain.CodeOf(err)
	if code == "" {
		log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errResp{Error: "internal_error"})
		return
	}

	status := http.StatusBadRequest
	switch domain.KindOf(err) {
	case domain.KindAuth:
		status = http.StatusUnauthorized
	case domain.KindNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errResp{Error: code})
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched;
// syntax and type errors become invalid_payload.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}
