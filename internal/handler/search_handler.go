package handler

import (
	"net/http"
	"strings"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type SearchHandler struct {
	base
}

func NewSearchHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *SearchHandler {
	return &SearchHandler{base{store: store, api: api, view: renderer}}
}

type searchData struct {
	Query  string
	Mode   string
	Hits   []model.SearchHit
	Answer *model.QueryAnswer
	Stats  *model.IndexStats
}

func (h *SearchHandler) Form(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	data := searchData{Mode: "search"}

	// Stats are decoration; the form still works when they fail.
	if stats, err := h.api.IndexStats(r.Context(), sess); err == nil {
		data.Stats = &stats
	}

	h.view.Render(w, http.StatusOK, "search", view.Page{Title: "Search", Data: data})
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	page := view.Page{Title: "Search", Data: searchData{Mode: "search"}}

	if err := r.ParseForm(); err != nil {
		page.Error = "Invalid form submission"
		h.view.Render(w, http.StatusBadRequest, "search", page)
		return
	}

	query := strings.TrimSpace(r.PostFormValue("query"))
	mode := r.PostFormValue("mode")
	documentType := r.PostFormValue("document_type")
	data := searchData{Query: query, Mode: mode}

	if query == "" {
		page.Data = data
		page.Error = "Enter a search query"
		h.view.Render(w, http.StatusBadRequest, "search", page)
		return
	}

	sess := h.session(w, r)

	if mode == "ask" {
		answer, err := h.api.QueryDocuments(r.Context(), sess, query)
		if err != nil {
			h.fail(w, r, err, "search", view.Page{Title: "Search", Data: data})
			return
		}
		data.Answer = &answer
	} else {
		hits, err := h.api.SemanticSearch(r.Context(), sess, model.SearchInput{
			Query:        query,
			DocumentType: documentType,
			Limit:        10,
		})
		if err != nil {
			h.fail(w, r, err, "search", view.Page{Title: "Search", Data: data})
			return
		}
		data.Hits = hits
	}

	h.view.Render(w, http.StatusOK, "search", view.Page{Title: "Search", Data: data})
}
