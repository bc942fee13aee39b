package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type AnalysisHandler struct {
	base
}

func NewAnalysisHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *AnalysisHandler {
	return &AnalysisHandler{base{store: store, api: api, view: renderer}}
}

type analysisJobsData struct {
	Jobs []model.AnalysisJob
}

func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	page := view.Page{Title: "Analysis jobs", Flash: r.URL.Query().Get("flash"), Data: analysisJobsData{}}

	jobs, err := h.api.ListAnalysisJobs(r.Context(), sess, 0, 100)
	if err != nil {
		h.fail(w, r, err, "analysis_jobs", page)
		return
	}

	page.Data = analysisJobsData{Jobs: jobs}
	h.view.Render(w, http.StatusOK, "analysis_jobs", page)
}

type analysisJobData struct {
	Status model.AnalysisStatus
	Report *model.Report
}

// Detail shows job progress and, once the job has completed, the report.
func (h *AnalysisHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	status, err := h.api.AnalysisStatus(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "analysis_jobs", view.Page{Title: "Analysis jobs", Data: analysisJobsData{}})
		return
	}

	data := analysisJobData{Status: status}
	if status.Status == "completed" {
		// The report may lag the job; its absence is not an error.
		if report, err := h.api.AnalysisReport(r.Context(), sess, id); err == nil {
			data.Report = &report
		}
	}

	h.view.Render(w, http.StatusOK, "analysis_job", view.Page{
		Title: "Analysis job",
		Flash: r.URL.Query().Get("flash"),
		Data:  data,
	})
}

func (h *AnalysisHandler) Retry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	started, err := h.api.RetryAnalysis(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "analysis_jobs", view.Page{Title: "Analysis jobs", Data: analysisJobsData{}})
		return
	}

	http.Redirect(w, r, "/analysis/"+started.JobID+"?flash="+flashEscape("Analysis requeued"), http.StatusSeeOther)
}

// DownloadReport streams the generated PDF through to the browser.
func (h *AnalysisHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	resp, err := h.api.DownloadReport(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "analysis_jobs", view.Page{Title: "Analysis jobs", Data: analysisJobsData{}})
		return
	}
	defer resp.Body.Close()

	copyDownloadHeaders(w, resp)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}
