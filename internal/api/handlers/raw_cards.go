package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

type RawCardHandler struct {
	db *gorm.DB
}

func NewRawCardHandler(db *gorm.DB) *RawCardHandler {
	return &RawCardHandler{db: db}
}

func (h *RawCardHandler) List(c *gin.Context) {
	sold, ok := soldFilter(c)
	if !ok {
		return
	}

	var cards []models.RawCard
	query := h.db.Order("date_added")
	if sold != nil {
		query = query.Where("sold = ?", *sold)
	}
	if err := query.Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *RawCardHandler) Create(c *gin.Context) {
	var card models.RawCard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if card.CardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardName is required"})
		return
	}
	if card.Condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition is required"})
		return
	}
	if card.MyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myPrice must not be negative"})
		return
	}

	now := time.Now()
	card.ID = uuid.NewString()
	if card.DateAdded.IsZero() {
		card.DateAdded = now
	}
	card.Sold = false
	card.SaleDetails = nil
	card.PriceHistory = models.AppendPrice(nil, card.MyPrice, now)

	if err := h.db.Create(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *RawCardHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.RawCardUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var card models.RawCard
	if err := h.db.First(&card, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "raw card not found"})
		return
	}

	if req.MyPrice != nil && *req.MyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myPrice must not be negative"})
		return
	}
	if req.Condition != nil && *req.Condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition must not be empty"})
		return
	}

	if req.CardName != nil {
		card.CardName = *req.CardName
	}
	if req.SetName != nil {
		card.SetName = *req.SetName
	}
	if req.CardNumber != nil {
		card.CardNumber = *req.CardNumber
	}
	if req.Condition != nil {
		card.Condition = *req.Condition
	}
	if req.Images != nil {
		card.Images = *req.Images
	}
	if req.MyPrice != nil && *req.MyPrice != card.MyPrice {
		card.MyPrice = *req.MyPrice
		card.PriceHistory = models.AppendPrice(card.PriceHistory, card.MyPrice, time.Now())
	}

	if err := h.db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *RawCardHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&models.RawCard{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "raw card not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *RawCardHandler) MarkSold(c *gin.Context) {
	id := c.Param("id")

	details, ok := bindSaleDetails(c)
	if !ok {
		return
	}

	var card models.RawCard
	if err := h.db.First(&card, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "raw card not found"})
		return
	}
	if card.Sold {
		c.JSON(http.StatusConflict, gin.H{"error": "raw card is already sold"})
		return
	}

	card.Sold = true
	card.SaleDetails = details

	if err := h.db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, card)
}
