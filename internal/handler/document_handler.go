package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
	"deallens-dashboard/pkg/apierror"
)

type DocumentHandler struct {
	base
	maxUploadSize int64
}

func NewDocumentHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		base:          base{store: store, api: api, view: renderer},
		maxUploadSize: maxUploadSize,
	}
}

// Upload forwards a browser file upload to the backend as-is. The dashboard
// never stores the file; it is glue between the form and the API.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		http.Redirect(w, r, "/properties/"+propertyID+"?flash="+flashEscape("Upload too large or malformed"), http.StatusSeeOther)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Redirect(w, r, "/properties/"+propertyID+"?flash="+flashEscape("No file selected"), http.StatusSeeOther)
		return
	}

	documentType := r.PostFormValue("document_type")
	if documentType == "" {
		documentType = model.DocTypeOther
	}

	sess := h.session(w, r)
	flash, err := h.upload(r, sess, propertyID, documentType, headers)
	if err != nil {
		if expired(err) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/properties/"+propertyID+"?flash="+flashEscape(uploadFailureMessage(err)), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/properties/"+propertyID+"?flash="+flashEscape(flash), http.StatusSeeOther)
}

// upload picks the single or the batch endpoint depending on how many files
// the form carried. The batch endpoint ignores document_type, so single-file
// uploads keep the richer call.
func (h *DocumentHandler) upload(r *http.Request, sess session.Session, propertyID string, documentType string, headers []*multipart.FileHeader) (string, error) {
	if len(headers) == 1 {
		file, err := headers[0].Open()
		if err != nil {
			return "", err
		}
		defer file.Close()

		result, err := h.api.UploadDocument(r.Context(), sess, propertyID, documentType, headers[0].Filename, file)
		if err != nil {
			return "", err
		}
		return result.Message, nil
	}

	files := make([]apiclient.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		files = append(files, apiclient.UploadFile{Name: header.Filename, Content: file})
	}

	results, err := h.api.UploadDocuments(r.Context(), sess, propertyID, files)
	if err != nil {
		return "", err
	}

	uploaded := 0
	for _, result := range results {
		if result.Status != "failed" {
			uploaded++
		}
	}
	return fmt.Sprintf("%d of %d files uploaded", uploaded, len(results)), nil
}

func uploadFailureMessage(err error) string {
	return "Upload failed: " + apierror.MessageOf(err)
}

func (h *DocumentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	document, err := h.api.GetDocument(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "document", view.Page{Title: "Document", Data: model.DocumentDetail{}})
		return
	}

	h.view.Render(w, http.StatusOK, "document", view.Page{
		Title: document.Filename,
		Flash: r.URL.Query().Get("flash"),
		Data:  document,
	})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	document, getErr := h.api.GetDocument(r.Context(), sess, id)

	if err := h.api.DeleteDocument(r.Context(), sess, id); err != nil {
		h.fail(w, r, err, "document", view.Page{Title: "Document", Data: document})
		return
	}

	target := "/properties"
	if getErr == nil && document.PropertyID != "" {
		target = "/properties/" + document.PropertyID
	}
	http.Redirect(w, r, target+"?flash="+flashEscape("Document deleted"), http.StatusSeeOther)
}

func (h *DocumentHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	if _, err := h.api.ReprocessDocument(r.Context(), sess, id); err != nil {
		h.fail(w, r, err, "document", view.Page{Title: "Document", Data: model.DocumentDetail{}})
		return
	}

	http.Redirect(w, r, "/documents/"+id+"?flash="+flashEscape("Reprocessing queued"), http.StatusSeeOther)
}

// Task reports background processing progress as JSON so the document page
// can poll it without a full reload.
func (h *DocumentHandler) Task(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	status, err := h.api.TaskStatus(r.Context(), sess, id)
	if err != nil {
		status := apierror.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": apierror.MessageOf(err)})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// Download streams the raw file through to the browser.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	resp, err := h.api.DownloadDocument(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "document", view.Page{Title: "Document", Data: model.DocumentDetail{}})
		return
	}
	defer resp.Body.Close()

	copyDownloadHeaders(w, resp)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}

func copyDownloadHeaders(w http.ResponseWriter, resp *http.Response) {
	for _, name := range []string{"Content-Type", "Content-Length", "Content-Disposition"} {
		if value := resp.Header.Get(name); value != "" {
			w.Header().Set(name, value)
		}
	}
}
