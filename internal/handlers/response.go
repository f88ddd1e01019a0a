// internal/handlers/response.go
package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/procureflow/rfp-backend/internal/i18n"
	"github.com/procureflow/rfp-backend/internal/models"
	"github.com/procureflow/rfp-backend/internal/services"
	"github.com/procureflow/rfp-backend/internal/utils"
)

type ResponseHandler struct {
	responseService *services.ResponseService
	authService     *services.AuthService
}

func NewResponseHandler(responseService *services.ResponseService, authService *services.AuthService) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
		authService:     authService,
	}
}

// POST /rfps/:id/responses
//
// Accepts either a JSON body or multipart/form-data with an optional
// "document" file alongside the "response_text" field.
func (h *ResponseHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmitResponseRequest
	var file multipart.File
	var header *multipart.FileHeader

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.ResponseText = c.PostForm("response_text")

		if f, hdr, err := c.Request.FormFile("document"); err == nil {
			file = f
			header = hdr
			defer f.Close()
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}
	}

	response, err := h.responseService.Submit(c.Request.Context(), user, rfpID, &req, file, header)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyResponseSubmitted),
		"response": response,
	})
}

// GET /rfps/:id/responses
func (h *ResponseHandler) ListForRFP(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	responses, err := h.responseService.ListForRFP(c.Request.Context(), user, rfpID)
	if err != nil {
		utils.HandleServiceError(c, err, "rfp")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"responses": responses,
	})
}

// GET /responses/my
func (h *ResponseHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	responses, err := h.responseService.ListMine(c.Request.Context(), user)
	if err != nil {
		utils.HandleServiceError(c, err, "response")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"responses": responses,
	})
}

// PATCH /rfps/:id/responses/:response_id/status
func (h *ResponseHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	rfpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	responseID, ok := parseIDParam(c, "response_id")
	if !ok {
		return
	}

	var req services.DecideResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	response, err := h.responseService.Decide(c.Request.Context(), user, rfpID, responseID, &req)
	if err != nil {
		utils.HandleServiceError(c, err, "response")
		return
	}

	messageKey := i18n.KeyResponseRejected
	if response.Status == models.ResponseStatusApproved {
		messageKey = i18n.KeyResponseApproved
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, messageKey),
		"response": response,
	})
}
