package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

type SealedProductHandler struct {
	db *gorm.DB
}

func NewSealedProductHandler(db *gorm.DB) *SealedProductHandler {
	return &SealedProductHandler{db: db}
}

func (h *SealedProductHandler) List(c *gin.Context) {
	sold, ok := soldFilter(c)
	if !ok {
		return
	}

	var products []models.SealedProduct
	query := h.db.Order("date_added")
	if sold != nil {
		query = query.Where("sold = ?", *sold)
	}
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *SealedProductHandler) Create(c *gin.Context) {
	var product models.SealedProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if product.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}
	if product.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}
	if product.MyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myPrice must not be negative"})
		return
	}

	now := time.Now()
	product.ID = uuid.NewString()
	if product.DateAdded.IsZero() {
		product.DateAdded = now
	}
	product.Sold = false
	product.SaleDetails = nil
	product.PriceHistory = models.AppendPrice(nil, product.MyPrice, now)

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *SealedProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.SealedProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.SealedProduct
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sealed product not found"})
		return
	}

	if req.MyPrice != nil && *req.MyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myPrice must not be negative"})
		return
	}

	if req.ProductName != nil {
		product.ProductName = *req.ProductName
	}
	if req.SetName != nil {
		product.SetName = *req.SetName
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.MyPrice != nil && *req.MyPrice != product.MyPrice {
		product.MyPrice = *req.MyPrice
		product.PriceHistory = models.AppendPrice(product.PriceHistory, product.MyPrice, time.Now())
	}

	if err := h.db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *SealedProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&models.SealedProduct{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "sealed product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *SealedProductHandler) MarkSold(c *gin.Context) {
	id := c.Param("id")

	details, ok := bindSaleDetails(c)
	if !ok {
		return
	}

	var product models.SealedProduct
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sealed product not found"})
		return
	}
	if product.Sold {
		c.JSON(http.StatusConflict, gin.H{"error": "sealed product is already sold"})
		return
	}

	product.Sold = true
	product.SaleDetails = details

	if err := h.db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}
