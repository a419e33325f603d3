package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servexhq/servex/internal/api/dto"
	ierr "github.com/servexhq/servex/internal/errors"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/service"
)

type SettingsHandler struct {
	settingsService service.SettingsService
	currencyService service.CurrencyService
	logger          *logger.Logger
}

func NewSettingsHandler(
	settingsService service.SettingsService,
	currencyService service.CurrencyService,
	logger *logger.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		currencyService: currencyService,
		logger:          logger,
	}
}

func (h *SettingsHandler) GetCurrencies(c *gin.Context) {
	resp, err := h.settingsService.GetCurrencySettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateCurrencies(c *gin.Context) {
	var req dto.UpdateCurrencySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.settingsService.UpdateCurrencySettings(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) ConvertAmount(c *gin.Context) {
	var req dto.ConvertAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	var (
		resp *dto.ConvertAmountResponse
		err  error
	)
	if c.Query("direction") == "canonical" {
		resp, err = h.currencyService.ToCanonical(c.Request.Context(), req)
	} else {
		resp, err = h.currencyService.ToDisplay(c.Request.Context(), req)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
