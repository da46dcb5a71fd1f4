package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ledgerService "github.com/paleteria/paleteria-pos/internal/ledger/service"
	"github.com/paleteria/paleteria-pos/internal/platform/httpx"
	"github.com/paleteria/paleteria-pos/internal/sale/domain"
	"github.com/paleteria/paleteria-pos/internal/sale/repository"
	"github.com/paleteria/paleteria-pos/internal/sale/service"
)

const pdfContentType = "application/pdf"

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(ss service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessionRoutes := router.Group("/sessions")
	{
		sessionRoutes.POST("", h.CreateSession)
		sessionRoutes.DELETE("/:id", h.DeleteSession)
		sessionRoutes.GET("/:id/cart", h.ViewCart)
		sessionRoutes.POST("/:id/cart/lines", h.AddLine)
		sessionRoutes.DELETE("/:id/cart/lines/:index", h.RemoveLine)
		sessionRoutes.DELETE("/:id/cart", h.ClearCart)
		sessionRoutes.POST("/:id/checkout", h.Checkout)
	}
	router.GET("/sales/receipts/:ticket_id", h.ReprintReceipt)
}

func (h *SaleHandler) CreateSession(c *gin.Context) {
	session, err := h.saleService.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, "CreateSession", err, "Failed to open session")
		return
	}
	c.JSON(http.StatusCreated, session.Cart.View(session.ID))
}

func (h *SaleHandler) DeleteSession(c *gin.Context) {
	if err := h.saleService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "DeleteSession", err, "Failed to close session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SaleHandler) ViewCart(c *gin.Context) {
	view, err := h.saleService.ViewCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "ViewCart", err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SaleHandler) AddLine(c *gin.Context) {
	var req domain.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	view, err := h.saleService.AddLine(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, "AddLine", err, "Failed to add line")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SaleHandler) RemoveLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line index"})
		return
	}
	view, err := h.saleService.RemoveLine(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, "RemoveLine", err, "Failed to remove line")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SaleHandler) ClearCart(c *gin.Context) {
	view, err := h.saleService.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "ClearCart", err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Checkout confirms the cart. With ?format=pdf the response is the printable
// receipt and the ticket id travels in the X-Ticket-ID header.
func (h *SaleHandler) Checkout(c *gin.Context) {
	var req domain.ConfirmSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	receipt, err := h.saleService.ConfirmSale(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, "Checkout", err, "Failed to confirm sale")
		return
	}

	if c.Query("format") != "pdf" {
		c.JSON(http.StatusCreated, receipt)
		return
	}
	doc, err := h.saleService.RenderReceipt(ctx, *receipt)
	if err != nil {
		// the sale is already recorded; the receipt can be reprinted later
		respondError(c, "Checkout", err, "Sale recorded but receipt rendering failed, ticket "+receipt.TicketID)
		return
	}
	c.Header("X-Ticket-ID", receipt.TicketID)
	httpx.Attachment(c, "ticket_"+receipt.TicketID+".pdf", pdfContentType, doc)
}

func (h *SaleHandler) ReprintReceipt(c *gin.Context) {
	ticketID := c.Param("ticket_id")
	doc, err := h.saleService.ReprintReceipt(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, "ReprintReceipt", err, "Failed to render receipt")
		return
	}
	httpx.Attachment(c, "ticket_"+ticketID+".pdf", pdfContentType, doc)
}

func respondError(c *gin.Context, op string, err error, fallback string) {
	if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, ledgerService.ErrTicketNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	httpx.RespondError(c, op, err, fallback)
}
