package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yukmats/visit-hearing/internal/api/response"
	"github.com/yukmats/visit-hearing/internal/domain"
	"github.com/yukmats/visit-hearing/internal/hearing"
	"github.com/yukmats/visit-hearing/internal/service"
)

// HearingHandler exposes the interview endpoints
type HearingHandler struct {
	svc      *service.HearingService
	validate *validator.Validate
}

// NewHearingHandler creates a new hearing handler
func NewHearingHandler(svc *service.HearingService) *HearingHandler {
	return &HearingHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

type startRequest struct {
	ReferenceData map[string]string `json:"reference_data"`
	DataSource    string            `json:"data_source" validate:"omitempty,oneof=meeting crm-a crm-b none"`
}

// Start opens a new hearing session and returns turn 0
func (h *HearingHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			response.BadRequest(w, "invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.svc.StartSession(r.Context(), service.StartRequest{
		Reference:  domain.ReferenceData(req.ReferenceData),
		DataSource: domain.DataSource(req.DataSource),
	})
	if err != nil {
		response.InternalError(w, "failed to start session")
		return
	}

	response.Created(w, resp)
}

type answerRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	TurnIndex *int   `json:"turn_index" validate:"required,min=0"`
	Answer    string `json:"answer" validate:"required"`

	// Echoed client state; the server's session copy is authoritative
	CurrentSlots   map[string]string `json:"current_slots,omitempty"`
	AskedQuestions []string          `json:"asked_questions,omitempty"`
	ReferenceData  map[string]string `json:"reference_data,omitempty"`
	DataSource     string            `json:"data_source,omitempty"`
}

// Answer processes one answer and returns the next turn or completion
func (h *HearingHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	resp, err := h.svc.SubmitAnswer(r.Context(), service.SubmitRequest{
		SessionID:  sessionID,
		TurnIndex:  *req.TurnIndex,
		Answer:     req.Answer,
		Reference:  domain.ReferenceData(req.ReferenceData),
		DataSource: domain.DataSource(req.DataSource),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(w, "session not found")
		case errors.Is(err, service.ErrSessionCompleted):
			response.Conflict(w, "session already completed")
		case errors.Is(err, service.ErrTurnMismatch):
			response.Conflict(w, "turn index does not match session state")
		default:
			response.InternalError(w, "failed to process answer")
		}
		return
	}

	response.OK(w, resp)
}

type suggestionsRequest struct {
	CurrentQuestion     string                    `json:"current_question" validate:"required"`
	ReferenceData       map[string]string         `json:"reference_data,omitempty"`
	CurrentSlots        map[string]string         `json:"current_slots,omitempty"`
	DataSource          string                    `json:"data_source,omitempty"`
	ConversationHistory []domain.ConversationTurn `json:"conversation_history,omitempty"`
}

// Suggestions returns answer candidates for a question. This path has no
// fallback: an LLM failure is an explicit error, never an invented list.
func (h *HearingHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	set, err := h.svc.GetSuggestions(r.Context(), hearing.SuggestInput{
		Question:   req.CurrentQuestion,
		Reference:  domain.ReferenceData(req.ReferenceData),
		Slots:      req.CurrentSlots,
		DataSource: domain.DataSource(req.DataSource),
		History:    req.ConversationHistory,
	})
	if err != nil {
		response.ServiceUnavailable(w, err.Error())
		return
	}

	response.OK(w, set)
}

type correctRequest struct {
	Text string `json:"text" validate:"required"`
}

// Correct cleans up a raw voice transcript
func (h *HearingHandler) Correct(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	corrected := h.svc.CorrectText(r.Context(), req.Text)
	response.OK(w, map[string]string{"corrected_text": corrected})
}
