package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/models"
)

// ProductHandler serves product endpoints.
type ProductHandler struct {
	repo ProductRepository
	log  *logrus.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(repo ProductRepository, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{repo: repo, log: log}
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.repo.ListProducts(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.log, err, "listing products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, models.ErrMissingProductID.Error())
		return
	}

	product, err := h.repo.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.log, err, "getting product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.repo.CreateProduct(c.Request.Context(), actorEmail(c), req)
	if err != nil {
		respondDomainError(c, h.log, err, "creating product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, models.ErrMissingProductID.Error())
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.repo.UpdateProduct(c.Request.Context(), actorEmail(c), id, req)
	if err != nil {
		respondDomainError(c, h.log, err, "updating product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, models.ErrMissingProductID.Error())
		return
	}

	if err := h.repo.DeleteProduct(c.Request.Context(), actorEmail(c), id); err != nil {
		respondDomainError(c, h.log, err, "deleting product")
		return
	}

	c.Status(http.StatusNoContent)
}
