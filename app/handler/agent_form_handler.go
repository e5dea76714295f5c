package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"agentconsole/internal/agentform"
	"agentconsole/internal/model"
	"agentconsole/pkg/agentapi"
	"agentconsole/pkg/i18n"
	"agentconsole/pkg/interfaces"
	"agentconsole/pkg/logger"
	"agentconsole/pkg/navigation"
	"agentconsole/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// multipartOverhead headroom for multipart boundaries and headers on top of the file limit
const multipartOverhead = 1 << 20

// AgentFormHandler hosts agent create/edit form pages
type AgentFormHandler struct {
	pages       store.PageStore
	service     interfaces.AgentService
	reader      interfaces.AgentReader
	notifier    interfaces.Notifier
	bundle      *i18n.Bundle
	maxFileSize int64
}

// NewAgentFormHandler creates a new agent form handler. reader and bundle may be nil.
func NewAgentFormHandler(pages store.PageStore, service interfaces.AgentService, reader interfaces.AgentReader,
	notifier interfaces.Notifier, bundle *i18n.Bundle, maxFileSize int64) *AgentFormHandler {
	return &AgentFormHandler{
		pages:       pages,
		service:     service,
		reader:      reader,
		notifier:    notifier,
		bundle:      bundle,
		maxFileSize: maxFileSize,
	}
}

// SubmitResponse submit result with the page state after completion
type SubmitResponse struct {
	Outcome *agentform.Outcome `json:"outcome"`
	Page    agentform.View     `json:"page"`
}

// ValidationResponse field errors of a blocked submit
type ValidationResponse struct {
	Error  string                  `json:"error"`
	Errors []*agentform.FieldError `json:"errors"`
}

// dependencies builds the page collaborators for one request
func (h *AgentFormHandler) dependencies(c *gin.Context, nav interfaces.Navigator) agentform.Dependencies {
	ctx := c.Request.Context()
	deps := agentform.Dependencies{
		Service:   h.service,
		Reader:    h.reader,
		Navigator: nav,
		Notifier:  h.notifier,
		Observer: func(s agentform.Snapshot) {
			if err := h.pages.Save(ctx, &s); err != nil {
				logger.ErrorCtx(ctx, "failed to save page %s (%s): %v", s.ID, s.State, err)
			}
		},
	}
	if h.bundle != nil {
		deps.Localizer = h.bundle.Localizer(c.GetHeader("Accept-Language"))
	}
	return deps
}

func (h *AgentFormHandler) loadPage(c *gin.Context, nav interfaces.Navigator) (*agentform.Page, bool) {
	id := c.Param("page_id")
	snap, err := h.pages.Load(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return agentform.Restore(snap, h.dependencies(c, nav)), true
}

func (h *AgentFormHandler) save(ctx context.Context, p *agentform.Page) error {
	snap := p.Snapshot()
	return h.pages.Save(ctx, &snap)
}

// CreatePage mounts a new form page
// @Summary Mount agent form page
// @Description Open the create or edit form. Absent or unknown action opens create.
// @Tags AgentForm
// @Produce json
// @Param action query string false "create | edit"
// @Param id query string false "Agent id for edit"
// @Success 201 {object} agentform.View
// @Router /api/v1/operator/agent/form/pages [post]
func (h *AgentFormHandler) CreatePage(c *gin.Context) {
	ctx := c.Request.Context()
	params := agentform.Params{Action: c.Query("action"), AgentID: c.Query("id")}

	p, err := agentform.NewPage(ctx, uuid.NewString(), params, h.dependencies(c, &navigation.Recorder{}))
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to mount agent form page: %v", err)
		h.fail(c, err)
		return
	}
	if err := h.save(ctx, p); err != nil {
		h.fail(c, err)
		return
	}

	logger.InfoCtx(ctx, "Mounted agent form page %s, mode: %s", p.ID(), p.Mode())
	c.JSON(http.StatusCreated, p.View())
}

// GetPage returns the form view
// @Summary Get agent form page
// @Tags AgentForm
// @Produce json
// @Param page_id path string true "Page id"
// @Success 200 {object} agentform.View
// @Router /api/v1/operator/agent/form/pages/{page_id} [get]
func (h *AgentFormHandler) GetPage(c *gin.Context) {
	p, ok := h.loadPage(c, &navigation.Recorder{})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// UpdateFields applies user input changes
// @Summary Change form fields
// @Description Numeric inputs are clamped into range. Disabled fields are rejected.
// @Tags AgentForm
// @Accept json
// @Produce json
// @Param page_id path string true "Page id"
// @Param request body agentform.FieldUpdate true "Field changes"
// @Success 200 {object} agentform.View
// @Router /api/v1/operator/agent/form/pages/{page_id} [patch]
func (h *AgentFormHandler) UpdateFields(c *gin.Context) {
	var req agentform.FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := h.loadPage(c, &navigation.Recorder{})
	if !ok {
		return
	}
	if err := p.Apply(req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.save(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// UploadConfigFile selects the config file, replacing any previous one
// @Summary Select config file
// @Tags AgentForm
// @Accept multipart/form-data
// @Produce json
// @Param page_id path string true "Page id"
// @Param config_file formData file true "Agent config file"
// @Success 200 {object} agentform.View
// @Router /api/v1/operator/agent/form/pages/{page_id}/config-file [put]
func (h *AgentFormHandler) UploadConfigFile(c *gin.Context) {
	ctx := c.Request.Context()
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	}

	header, err := c.FormFile(model.FieldConfigFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "config file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "config_file is required: " + err.Error()})
		return
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "config file too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, ok := h.loadPage(c, &navigation.Recorder{})
	if !ok {
		return
	}
	file := &model.ConfigFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	if err := p.SelectConfigFile(file); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.save(ctx, p); err != nil {
		h.fail(c, err)
		return
	}

	logger.InfoCtx(ctx, "Page %s selected config file %s (%d bytes)", p.ID(), file.Filename, file.Size())
	c.JSON(http.StatusOK, p.View())
}

// RemoveConfigFile clears the selected config file
// @Summary Remove config file
// @Tags AgentForm
// @Produce json
// @Param page_id path string true "Page id"
// @Success 200 {object} agentform.View
// @Router /api/v1/operator/agent/form/pages/{page_id}/config-file [delete]
func (h *AgentFormHandler) RemoveConfigFile(c *gin.Context) {
	p, ok := h.loadPage(c, &navigation.Recorder{})
	if !ok {
		return
	}
	if err := p.RemoveConfigFile(); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.save(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.View())
}

// Submit validates and submits the form
// @Summary Submit agent form
// @Description 422 with localized field errors when validation fails, otherwise the create or update outcome
// @Tags AgentForm
// @Produce json
// @Param page_id path string true "Page id"
// @Success 200 {object} SubmitResponse
// @Failure 422 {object} ValidationResponse
// @Router /api/v1/operator/agent/form/pages/{page_id}/submit [post]
func (h *AgentFormHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	nav := &navigation.Recorder{}
	p, ok := h.loadPage(c, nav)
	if !ok {
		return
	}

	out, err := p.Submit(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	if p.State() == agentform.StateDone {
		if err := h.pages.Delete(ctx, p.ID()); err != nil {
			logger.WarnCtx(ctx, "failed to delete page %s: %v", p.ID(), err)
		}
	}
	if out.Redirect == "" {
		out.Redirect = nav.Path()
	}
	c.JSON(http.StatusOK, SubmitResponse{Outcome: out, Page: p.View()})
}

// Cancel discards the form and returns the navigation target
// @Summary Cancel agent form
// @Tags AgentForm
// @Produce json
// @Param page_id path string true "Page id"
// @Success 200 {object} map[string]string
// @Router /api/v1/operator/agent/form/pages/{page_id}/cancel [post]
func (h *AgentFormHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()
	nav := &navigation.Recorder{}
	p, ok := h.loadPage(c, nav)
	if !ok {
		return
	}

	p.Cancel(ctx)
	if err := h.pages.Delete(ctx, p.ID()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": nav.Path()})
}

// fail maps page and collaborator errors to HTTP responses
func (h *AgentFormHandler) fail(c *gin.Context, err error) {
	var verr *agentform.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Error: verr.Error(), Errors: verr.Errors})
		return
	}

	var apiErr *agentapi.APIError
	switch {
	case errors.Is(err, store.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, agentform.ErrPageClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, agentform.ErrFieldDisabled), errors.Is(err, agentform.ErrInvalidOption),
		errors.Is(err, agentform.ErrNotClearable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
	default:
		logger.ErrorCtx(c.Request.Context(), "agent form request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
