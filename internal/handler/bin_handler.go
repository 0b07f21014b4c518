package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digame/internal/pkg/req"
	"digame/internal/pkg/resp"
)

// CreateBinOutput is the payload returned when a bin is created.
type CreateBinOutput struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// HandleCreateBin creates a bin holding the empty chat document.
func HandleCreateBin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := deps.Bins.Create(r.Context())
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		resp.RespondStatus(w, r, http.StatusCreated, CreateBinOutput{
			ID:  id,
			URL: binURL(r, id),
		})
	}
}

// HandleGetBin returns the stored document as is.
func HandleGetBin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := deps.Bins.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		resp.RespondRaw(w, r, http.StatusOK, body)
	}
}

// HandlePutBin overwrites the whole document and echoes what was stored.
func HandlePutBin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, customErr := req.ReadJSON(w, r, deps.Config.MaxDocumentBytes)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		stored, err := deps.Bins.Put(r.Context(), chi.URLParam(r, "id"), raw)
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		resp.RespondRaw(w, r, http.StatusOK, stored)
	}
}

func binURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s/bins/%s", scheme, r.Host, id)
}
