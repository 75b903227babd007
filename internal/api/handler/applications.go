package handler

import (
	"net/http"
	"strconv"

	"github.com/aidlink/aidlink/internal/api/middleware"
	"github.com/aidlink/aidlink/internal/api/models"
	"github.com/aidlink/aidlink/internal/api/response"
	"github.com/aidlink/aidlink/internal/application"
	"github.com/aidlink/aidlink/internal/auth"
)

// ApplicationHandler handles aid application endpoints.
type ApplicationHandler struct {
	workflow *application.Workflow
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(workflow *application.Workflow) *ApplicationHandler {
	return &ApplicationHandler{workflow: workflow}
}

// ListApplications handles GET /v1/applications?status=&organization=.
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := h.workflow.List(r.Context(), application.Filter{
		Status:       application.Status(q.Get("status")),
		Organization: q.Get("organization"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]models.Application, len(apps))
	for i, a := range apps {
		items[i] = toApplicationModel(a)
	}
	response.JSON(w, r, http.StatusOK, models.ApplicationList{Items: items, Meta: models.ListMeta{Count: len(items)}})
}

// GetApplication handles GET /v1/applications/{applicationId}.
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationId")
	if !ok {
		return
	}

	app, err := h.workflow.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toApplicationModel(app))
}

// SubmitApplication handles POST /v1/applications. An ngo caller files on
// behalf of its own organization only.
func (h *ApplicationHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req models.ApplicationCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if p := middleware.GetPrincipal(r.Context()); p != nil && p.Role == auth.RoleNGO {
		switch req.Organization {
		case "":
			req.Organization = p.Organization
		case p.Organization:
		default:
			response.Forbidden(w, r, "ngo callers may only submit for their own organization")
			return
		}
	}

	app, err := h.workflow.Submit(r.Context(), application.Input{
		Organization: req.Organization,
		AidType:      req.AidType,
		Quantity:     req.Quantity,
		Description:  req.Description,
		DeliveryDate: req.DeliveryDate,
		LocationID:   req.LocationID,
		AidDays:      req.AidDays,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/applications/"+strconv.FormatInt(app.ID, 10), toApplicationModel(app))
}

// SetStatus handles PUT /v1/applications/{applicationId}/status.
func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationId")
	if !ok {
		return
	}

	var req models.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.workflow.SetStatus(r.Context(), id, application.Status(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.StatusUpdateResponse{
		Application:   toApplicationModel(result.Application),
		Channel:       string(result.Channel),
		EffectApplied: result.EffectApplied,
		EffectSkipped: result.EffectSkipped,
	}
	if result.Location != nil {
		loc := toLocationModel(result.Location)
		resp.Location = &loc
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// DeleteApplication handles DELETE /v1/applications/{applicationId}.
func (h *ApplicationHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationId")
	if !ok {
		return
	}

	if err := h.workflow.Remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func toApplicationModel(a *application.Application) models.Application {
	return models.Application{
		ID:            a.ID,
		Organization:  a.Organization,
		AidType:       a.AidType,
		Quantity:      a.Quantity,
		Description:   a.Description,
		SubmittedDate: a.SubmittedDate,
		DeliveryDate:  a.DeliveryDate,
		Status:        string(a.Status),
		Priority:      string(a.Priority),
		LocationID:    a.LocationID,
		AidDays:       a.AidDays,
	}
}
