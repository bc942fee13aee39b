package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"deallens-dashboard/internal/apiclient"
	"deallens-dashboard/internal/model"
	"deallens-dashboard/internal/session"
	"deallens-dashboard/internal/view"
)

type PropertyHandler struct {
	base
}

func NewPropertyHandler(store *session.Store, api *apiclient.Client, renderer *view.Renderer) *PropertyHandler {
	return &PropertyHandler{base{store: store, api: api, view: renderer}}
}

type propertiesData struct {
	Properties []model.Property
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	page := view.Page{Title: "Properties", Flash: r.URL.Query().Get("flash"), Data: propertiesData{}}

	properties, err := h.api.ListProperties(r.Context(), sess, r.URL.Query().Get("status"), 0, 100)
	if err != nil {
		h.fail(w, r, err, "properties", page)
		return
	}

	page.Data = propertiesData{Properties: properties}
	h.view.Render(w, http.StatusOK, "properties", page)
}

type propertyFormData struct {
	ID          string
	Address     string
	City        string
	Zone        string
	Description string
}

func (h *PropertyHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "property_form", view.Page{Title: "Add property", Data: propertyFormData{}})
}

func parsePropertyForm(r *http.Request) (model.PropertyInput, propertyFormData) {
	input := model.PropertyInput{
		Address:     strings.TrimSpace(r.PostFormValue("property_address")),
		City:        strings.TrimSpace(r.PostFormValue("property_city")),
		Zone:        strings.TrimSpace(r.PostFormValue("property_zone")),
		Description: strings.TrimSpace(r.PostFormValue("property_description")),
	}

	return input, propertyFormData{
		Address:     input.Address,
		City:        input.City,
		Zone:        input.Zone,
		Description: input.Description,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "property_form", view.Page{Title: "Add property", Error: "Invalid form submission", Data: propertyFormData{}})
		return
	}

	input, form := parsePropertyForm(r)

	sess := h.session(w, r)
	property, err := h.api.CreateProperty(r.Context(), sess, input)
	if err != nil {
		h.fail(w, r, err, "property_form", view.Page{Title: "Add property", Data: form})
		return
	}

	http.Redirect(w, r, "/properties/"+property.ID, http.StatusSeeOther)
}

type propertyDetailData struct {
	Property model.PropertyDetail
}

func (h *PropertyHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	property, err := h.api.GetProperty(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "properties", view.Page{Title: "Properties", Data: propertiesData{}})
		return
	}

	h.view.Render(w, http.StatusOK, "property_detail", view.Page{
		Title: "Property",
		Flash: r.URL.Query().Get("flash"),
		Data:  propertyDetailData{Property: property},
	})
}

func (h *PropertyHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	property, err := h.api.GetProperty(r.Context(), sess, id)
	if err != nil {
		h.fail(w, r, err, "properties", view.Page{Title: "Properties", Data: propertiesData{}})
		return
	}

	h.view.Render(w, http.StatusOK, "property_form", view.Page{
		Title: "Edit property",
		Data: propertyFormData{
			ID:          property.ID,
			Address:     property.Address,
			City:        property.City,
			Zone:        property.Zone,
			Description: property.Description,
		},
	})
}

func (h *PropertyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, http.StatusBadRequest, "property_form", view.Page{Title: "Edit property", Error: "Invalid form submission", Data: propertyFormData{ID: id}})
		return
	}

	input, form := parsePropertyForm(r)
	form.ID = id

	sess := h.session(w, r)
	if _, err := h.api.UpdateProperty(r.Context(), sess, id, input); err != nil {
		h.fail(w, r, err, "property_form", view.Page{Title: "Edit property", Data: form})
		return
	}

	http.Redirect(w, r, "/properties/"+id, http.StatusSeeOther)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	if err := h.api.DeleteProperty(r.Context(), sess, id); err != nil {
		h.fail(w, r, err, "properties", view.Page{Title: "Properties", Data: propertiesData{}})
		return
	}

	http.Redirect(w, r, "/properties?flash="+flashEscape("Property deleted"), http.StatusSeeOther)
}

// Analyze queues an AI analysis job and lands on its status page.
func (h *PropertyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess := h.session(w, r)
	started, err := h.api.StartAnalysis(r.Context(), sess, id, nil)
	if err != nil {
		property, getErr := h.api.GetProperty(r.Context(), sess, id)
		if getErr != nil {
			h.fail(w, r, err, "properties", view.Page{Title: "Properties", Data: propertiesData{}})
			return
		}
		h.fail(w, r, err, "property_detail", view.Page{Title: "Property", Data: propertyDetailData{Property: property}})
		return
	}

	http.Redirect(w, r, "/analysis/"+started.JobID, http.StatusSeeOther)
}
