package handlers

import (
	"errors"
	"net/http"

	"agrimandi/models"
	"agrimandi/services/offer"
	"agrimandi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OfferHandler exposes trade offer endpoints.
type OfferHandler struct {
	Svc offer.OfferService
}

// NewOfferHandler creates an OfferHandler.
func NewOfferHandler(svc offer.OfferService) *OfferHandler {
	return &OfferHandler{Svc: svc}
}

// CreateOfferHandler handles POST /offers. Creation is gated on a verified
// KYC profile.
func (h *OfferHandler) CreateOfferHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.OfferCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload: " + err.Error()})
		return
	}

	off, err := h.Svc.CreateOffer(userID, req)
	if err != nil {
		var gated offer.ErrKYCRequired
		if errors.As(err, &gated) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":      gated.Error(),
				"kyc_status": gated.Status,
			})
			return
		}
		logger.Error("offer creation failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, off)
}

// ListOffersHandler handles GET /offers.
func (h *OfferHandler) ListOffersHandler(c *gin.Context) {
	offers, err := h.Svc.ListOpenOffers(c.Query("commodity"), c.Query("district"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// ListMyOffersHandler handles GET /offers/mine.
func (h *OfferHandler) ListMyOffersHandler(c *gin.Context) {
	userID := c.GetString("userID")
	offers, err := h.Svc.ListMyOffers(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// GetOfferHandler handles GET /offers/:id.
func (h *OfferHandler) GetOfferHandler(c *gin.Context) {
	off, err := h.Svc.GetOffer(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, off)
}

// DeleteOfferHandler handles DELETE /offers/:id.
func (h *OfferHandler) DeleteOfferHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.Svc.DeleteOffer(userID, c.Param("id")); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}
