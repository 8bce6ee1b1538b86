package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fundfacts-ai/fundfacts/internal/api"
	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

// AnswerService runs one query through the answer pipeline.
type AnswerService interface {
	Answer(ctx context.Context, query string) (domain.Answer, error)
}

// QueryHandler serves the question-answering endpoint.
type QueryHandler struct {
	svc AnswerService
}

func NewQueryHandler(svc AnswerService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Answer   string `json:"answer"`
	Source   string `json:"source"`
	IsAdvice bool   `json:"is_advice"`
}

// Post handles POST /query with a JSON body.
func (h *QueryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.answer(w, r, req.Query)
}

// Get handles GET /query?q= for simple integrations.
func (h *QueryHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, r.URL.Query().Get("q"))
}

func (h *QueryHandler) answer(w http.ResponseWriter, r *http.Request, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		api.Error(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	answer, err := h.svc.Answer(r.Context(), query)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, QueryResponse{
		Answer:   answer.Answer,
		Source:   answer.Source,
		IsAdvice: answer.IsAdvice,
	})
}
