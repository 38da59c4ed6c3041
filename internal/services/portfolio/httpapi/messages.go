package httpapi

import (
	"net/http"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/httpx"
	"github.com/louisbranch/portfolio/internal/services/portfolio/service"
)

type submitResponse struct {
	Success bool                   `json:"success"`
	Message content.ContactMessage `json:"message"`
}

func (h *handler) submitMessage(w http.ResponseWriter, r *http.Request) {
	var in service.MessageInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.content.SubmitMessage(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info().Str("message_id", msg.ID).Msg("contact message received")
	_ = httpx.WriteJSON(w, http.StatusCreated, submitResponse{Success: true, Message: msg})
}

func (h *handler) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.content.ListMessages(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, msgs)
}

func (h *handler) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, _, err := decodeWithID(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.content.MarkMessageRead(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
}

func (h *handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.content.DeleteMessage(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
}
