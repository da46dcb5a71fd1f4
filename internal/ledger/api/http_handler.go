package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/ledger/service"
	"github.com/paleteria/paleteria-pos/internal/platform/httpx"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
}

func NewLedgerHandler(ls service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ls}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	salesRoutes := router.Group("/sales")
	{
		salesRoutes.GET("", h.ListSales)
		salesRoutes.DELETE("/:index", h.DeleteSale)
	}
}

func (h *LedgerHandler) ListSales(c *gin.Context) {
	filter := domain.SaleFilter{Date: c.Query("date"), TicketID: c.Query("ticket_id")}
	records, err := h.ledgerService.ListSales(c.Request.Context(), filter)
	if err != nil {
		httpx.RespondError(c, "ListSales", err, "Failed to list sales")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *LedgerHandler) DeleteSale(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale index"})
		return
	}
	restock, err := strconv.ParseBool(c.DefaultQuery("restock", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restock flag"})
		return
	}

	removed, err := h.ledgerService.DeleteSale(c.Request.Context(), index, restock)
	if err != nil {
		httpx.RespondError(c, "DeleteSale", err, "Failed to delete sale")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted", "sale": removed, "restocked": restock})
}
