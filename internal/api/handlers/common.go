package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Web-Oliver/pokemon-collection/internal/models"
)

// soldFilter parses the optional ?sold= query parameter. nil means no
// filter (both partitions).
func soldFilter(c *gin.Context) (*bool, bool) {
	raw := c.Query("sold")
	if raw == "" {
		return nil, true
	}
	sold, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sold filter"})
		return nil, false
	}
	return &sold, true
}

// bindSaleDetails validates the mark-sold payload. The record must be
// fully populated; DateSold defaults to now when omitted.
func bindSaleDetails(c *gin.Context) (*models.SaleDetails, bool) {
	var details models.SaleDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if details.PaymentMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod is required"})
		return nil, false
	}
	if details.DeliveryMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deliveryMethod is required"})
		return nil, false
	}
	if details.ActualSoldPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actualSoldPrice must be positive"})
		return nil, false
	}
	if details.DateSold.IsZero() {
		details.DateSold = time.Now()
	}
	return &details, true
}
