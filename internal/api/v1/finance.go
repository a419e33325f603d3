package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servexhq/servex/internal/logger"
	"github.com/servexhq/servex/internal/service"
)

type FinanceHandler struct {
	financeService service.FinanceService
	logger         *logger.Logger
}

func NewFinanceHandler(financeService service.FinanceService, logger *logger.Logger) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

func (h *FinanceHandler) ClientStatements(c *gin.Context) {
	resp, err := h.financeService.ClientStatements(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) ClientStatementInvoices(c *gin.Context) {
	resp, err := h.financeService.ClientStatementInvoices(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) TripWorksheet(c *gin.Context) {
	resp, err := h.financeService.TripWorksheet(c.Request.Context(), c.Param("trip_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	resp, err := h.financeService.Summary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
