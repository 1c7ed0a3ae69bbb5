package handler

import (
	"fmt"
	"net/http"
	"strconv"

	model "auction-shop/internal/models"
	"auction-shop/services/shop/helpers"
	"auction-shop/utils"

	"github.com/gin-gonic/gin"
)

type PrefServiceInterface interface {
	Get(tgID int64) (model.UserPreference, error)
	Set(tgID int64, lang, theme *string) (model.UserPreference, error)
}

type PrefsHandler struct {
	service PrefServiceInterface
}

func NewPrefsHandler(service PrefServiceInterface) *PrefsHandler {
	return &PrefsHandler{service: service}
}

// GetPreferencesHandler handles GET /users/:tg_id/preferences
func (h *PrefsHandler) GetPreferencesHandler(c *gin.Context) {
	tgID, err := strconv.ParseInt(c.Param("tg_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid tg_id: %w", err), "invalid tg_id")
		return
	}

	pref, err := h.service.Get(tgID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetPreferencesHandler: error retrieving preferences", map[string]any{"tg_id": tgID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, pref, "preferences retrieved successfully")
}

// SetPreferencesHandler handles PUT /users/:tg_id/preferences. Omitted fields
// keep their current value.
func (h *PrefsHandler) SetPreferencesHandler(c *gin.Context) {
	tgID, err := strconv.ParseInt(c.Param("tg_id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid tg_id: %w", err), "invalid tg_id")
		return
	}

	var req helpers.SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetPreferencesHandler", err)
		return
	}

	pref, err := h.service.Set(tgID, req.Lang, req.Theme)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SetPreferencesHandler: error saving preferences", map[string]any{"tg_id": tgID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, pref, "preferences saved successfully")
	helpers.LogSuccess("SetPreferencesHandler", "preferences saved successfully", map[string]any{
		"tg_id": tgID,
		"lang":  pref.Lang,
		"theme": pref.Theme,
	})
}
