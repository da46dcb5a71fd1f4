package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paleteria/paleteria-pos/internal/catalog/domain"
	"github.com/paleteria/paleteria-pos/internal/catalog/service"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/httpx"
)

const maxImportSize = 8 << 20

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(cs service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// RegisterRoutes mounts the product routes. Reads are open to every signed-in
// role; adminOnly guards mutations and bulk import.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/low-stock", h.LowStock)
		productRoutes.GET("/export", h.ExportInventory)
		productRoutes.GET("/import/template", h.ImportTemplate)
		productRoutes.GET("/:id", h.GetProduct)

		productRoutes.POST("", adminOnly, h.AddProduct)
		productRoutes.PUT("/:id", adminOnly, h.UpdateProduct)
		productRoutes.POST("/import/preview", adminOnly, h.PreviewImport)
		productRoutes.POST("/import", adminOnly, h.ImportProducts)
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	products, err := h.catalogService.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		httpx.RespondError(c, "ListProducts", err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondError(c, "GetProduct", err, "Failed to get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) AddProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	product, err := h.catalogService.AddProduct(c.Request.Context(), req)
	if err != nil {
		httpx.RespondError(c, "AddProduct", err, "Failed to add product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}
	product, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpx.RespondError(c, "UpdateProduct", err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) LowStock(c *gin.Context) {
	products, err := h.catalogService.LowStock(c.Request.Context())
	if err != nil {
		httpx.RespondError(c, "LowStock", err, "Failed to list low stock products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) ExportInventory(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.catalogService.ExportInventoryCSV(c.Request.Context(), &buf); err != nil {
		httpx.RespondError(c, "ExportInventory", err, "Failed to export inventory")
		return
	}
	httpx.Attachment(c, "inventario.csv", "text/csv", buf.Bytes())
}

func (h *CatalogHandler) ImportTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.catalogService.ImportTemplate(&buf); err != nil {
		httpx.RespondError(c, "ImportTemplate", err, "Failed to build template")
		return
	}
	httpx.Attachment(c, "plantilla_productos.csv", "text/csv", buf.Bytes())
}

func (h *CatalogHandler) PreviewImport(c *gin.Context) {
	file, ok := h.importFile(c)
	if !ok {
		return
	}
	rows, err := h.catalogService.PreviewImport(c.Request.Context(), bytes.NewReader(file))
	if err != nil {
		httpx.RespondError(c, "PreviewImport", err, "Failed to preview import")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// ImportProducts accepts the file plus an optional "skip" form field with
// comma separated row numbers taken from the preview.
func (h *CatalogHandler) ImportProducts(c *gin.Context) {
	file, ok := h.importFile(c)
	if !ok {
		return
	}
	skipRows, err := parseRowList(c.PostForm("skip"))
	if err != nil {
		httpx.RespondError(c, "ImportProducts", err, "Failed to import products")
		return
	}
	result, err := h.catalogService.ImportProducts(c.Request.Context(), bytes.NewReader(file), skipRows)
	if err != nil {
		httpx.RespondError(c, "ImportProducts", err, "Failed to import products")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) importFile(c *gin.Context) ([]byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing import file: " + err.Error()})
		return nil, false
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Import file too large"})
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open import file: " + err.Error()})
		return nil, false
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read import file: " + err.Error()})
		return nil, false
	}
	return buf.Bytes(), true
}

func parseRowList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var rows []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, apperr.Validation("skip must list positive row numbers", "skip")
		}
		rows = append(rows, n)
	}
	return rows, nil
}
