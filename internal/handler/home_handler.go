package handler

import (
	"net/http"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type HomeHandler struct {
	base
}

func NewHomeHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *HomeHandler {
	return &HomeHandler{base{store: store, api: api, view: renderer}}
}

// Landing is the public marketing screen.
func (h *HomeHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "home", view.Page{Title: "DealLens"})
}

type dashboardData struct {
	Properties []model.Property
	Jobs       []model.AnalysisJob
}

// Dashboard is the authenticated landing screen: profile, recent properties
// and recent analysis jobs.
func (h *HomeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	page := view.Page{Title: "Dashboard", Flash: r.URL.Query().Get("flash"), Data: dashboardData{}}

	user, err := h.api.Me(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err, "dashboard", page)
		return
	}
	page.User = &user

	properties, err := h.api.ListProperties(r.Context(), sess, "", 0, 5)
	if err != nil {
		h.fail(w, r, err, "dashboard", page)
		return
	}

	jobs, err := h.api.ListAnalysisJobs(r.Context(), sess, 0, 5)
	if err != nil {
		h.fail(w, r, err, "dashboard", page)
		return
	}

	page.Data = dashboardData{Properties: properties, Jobs: jobs}
	h.view.Render(w, http.StatusOK, "dashboard", page)
}

// Health reports dashboard liveness and, separately, backend reachability.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	sess := session.NewMemory("", "")
	if err := h.api.Health(r.Context(), sess); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("dashboard ok, backend unreachable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
