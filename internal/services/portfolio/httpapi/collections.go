package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/portfolio/internal/platform/errors"
	"github.com/louisbranch/portfolio/internal/services/portfolio/platform/httpx"
)

// collections maps each editable collection path segment to its routes.
func (h *handler) collections() map[string]methods {
	return map[string]methods{
		"categories":     collectionRoutes(h, h.content.ListCategories, h.content.CreateCategory, h.content.UpdateCategory, h.content.DeleteCategory),
		"skills":         collectionRoutes(h, h.content.ListSkills, h.content.CreateSkill, h.content.UpdateSkill, h.content.DeleteSkill),
		"projects":       collectionRoutes(h, h.content.ListProjects, h.content.CreateProject, h.content.UpdateProject, h.content.DeleteProject),
		"experiences":    collectionRoutes(h, h.content.ListExperiences, h.content.CreateExperience, h.content.UpdateExperience, h.content.DeleteExperience),
		"certifications": collectionRoutes(h, h.content.ListCertifications, h.content.CreateCertification, h.content.UpdateCertification, h.content.DeleteCertification),
	}
}

// collectionRoutes serves list, create, partial update and delete for one
// collection. Reads are public; writes need an admin session.
func collectionRoutes[T any, P any](
	h *handler,
	list func(context.Context) ([]T, error),
	create func(context.Context, T) (T, error),
	update func(context.Context, string, P) (T, error),
	remove func(context.Context, string) error,
) methods {
	return methods{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			items, err := list(r.Context())
			if err != nil {
				h.fail(w, r, err)
				return
			}
			_ = httpx.WriteJSON(w, http.StatusOK, items)
		},
		http.MethodPost: h.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			var in T
			if err := httpx.DecodeJSON(w, r, &in); err != nil {
				h.fail(w, r, err)
				return
			}
			created, err := create(r.Context(), in)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			_ = httpx.WriteJSON(w, http.StatusCreated, created)
		}),
		http.MethodPut: h.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			id, raw, err := decodeWithID(w, r)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			var patch P
			if err := json.Unmarshal(raw, &patch); err != nil {
				h.fail(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "request body is not valid JSON", err))
				return
			}
			updated, err := update(r.Context(), id, patch)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			_ = httpx.WriteJSON(w, http.StatusOK, updated)
		}),
		http.MethodDelete: h.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			id, err := queryID(r)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			if err := remove(r.Context(), id); err != nil {
				h.fail(w, r, err)
				return
			}
			_ = httpx.WriteJSON(w, http.StatusOK, okResponse)
		}),
	}
}

// decodeWithID reads a `{"id": ..., ...fields}` body and returns the id
// together with the raw body for decoding the remaining fields.
func decodeWithID(w http.ResponseWriter, r *http.Request) (string, json.RawMessage, error) {
	var raw json.RawMessage
	if err := httpx.DecodeJSON(w, r, &raw); err != nil {
		return "", nil, err
	}
	var ref struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", nil, apperrors.Wrap(apperrors.KindInvalidInput, "id must be a string", err)
	}
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return "", nil, apperrors.E(apperrors.KindInvalidInput, "ID is required")
	}
	return id, raw, nil
}

func queryID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return "", apperrors.E(apperrors.KindInvalidInput, "ID is required")
	}
	return id, nil
}
