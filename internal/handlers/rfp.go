// internal/handlers/rfp.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/procureflow/rfp-backend/internal/i18n"
	"github.com/procureflow/rfp-backend/internal/services"
	"github.com/procureflow/rfp-backend/internal/utils"
)

type RFPHandler struct {
	rfpService  *services.RFPService
	authService *services.AuthService
}

func NewRFPHandler(rfpService *services.RFPService, authService *services.AuthService) *RFPHandler {
	return &RFPHandler{
		rfpService:  rfpService,
		authService: authService,
	}
}

// POST /rfps
func (h *RFPHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req services.CreateRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	rfp, err := h.rfpService.Create(c.Request.Context(), user, &req)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPCreated),
		"rfp":     rfp,
	})
}

// GET /rfps
func (h *RFPHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	result, err := h.rfpService.List(c.Request.Context(), user, params)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.PaginatedResponse(c, result)
}

// GET /rfps/search?q=...
//
// Public: search only ever surfaces Published RFPs, so no caller identity
// is needed.
func (h *RFPHandler) Search(c *gin.Context) {
	rfps, err := h.rfpService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rfps": rfps,
	})
}

// GET /rfps/:id
func (h *RFPHandler) Get(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rfp, err := h.rfpService.Get(c.Request.Context(), user, rfpID)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rfp": rfp,
	})
}

// PUT /rfps/:id
func (h *RFPHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	rfp, err := h.rfpService.Update(c.Request.Context(), user, rfpID, &req)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPUpdated),
		"rfp":     rfp,
	})
}

// PATCH /rfps/:id/status
func (h *RFPHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TransitionRFPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	rfp, err := h.rfpService.Transition(c.Request.Context(), user, rfpID, &req)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPStatusChanged),
		"rfp":     rfp,
	})
}

// DELETE /rfps/:id
func (h *RFPHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.rfpService.Delete(c.Request.Context(), user, rfpID); err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPDeleted),
	})
}

// POST /rfps/:id/document
func (h *RFPHandler) UploadDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "document"), nil)
		return
	}
	defer file.Close()

	rfp, err := h.rfpService.UploadDocument(c.Request.Context(), user, rfpID, file, header)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRFPDocumentSaved),
		"rfp":     rfp,
	})
}
