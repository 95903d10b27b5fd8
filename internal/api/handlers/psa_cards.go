package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

type PsaCardHandler struct {
	db *gorm.DB
}

func NewPsaCardHandler(db *gorm.DB) *PsaCardHandler {
	return &PsaCardHandler{db: db}
}

func (h *PsaCardHandler) List(c *gin.Context) {
	sold, ok := soldFilter(c)
	if !ok {
		return
	}

	var cards []models.PsaCard
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

func (h *PsaCardHandler) Create(c *gin.Context) {
	var card models.PsaCard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if card.CardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardName is required"})
		return
	}
	if card.Grade < 1 || card.Grade > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grade must be between 1 and 10"})
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

func (h *PsaCardHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.PsaCardUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var card models.PsaCard
	if err := h.db.First(&card, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "psa card not found"})
		return
	}

	if req.Grade != nil && (*req.Grade < 1 || *req.Grade > 10) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grade must be between 1 and 10"})
		return
	}
	if req.MyPrice != nil && *req.MyPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myPrice must not be negative"})
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
	if req.Grade != nil {
		card.Grade = *req.Grade
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

func (h *PsaCardHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	result := h.db.Delete(&models.PsaCard{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "psa card not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *PsaCardHandler) MarkSold(c *gin.Context) {
	id := c.Param("id")

	details, ok := bindSaleDetails(c)
	if !ok {
		return
	}

	var card models.PsaCard
	if err := h.db.First(&card, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "psa card not found"})
		return
	}
	if card.Sold {
		c.JSON(http.StatusConflict, gin.H{"error": "psa card is already sold"})
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
