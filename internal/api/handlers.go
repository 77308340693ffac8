package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linusng/cardsense/internal/common"
	"github.com/linusng/cardsense/internal/model"
)

type matchCardRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	WalletName string `json:"wallet_name" binding:"required"`
}

type matchMerchantRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	MerchantName string `json:"merchant_name" binding:"required"`
}

type addCardRequest struct {
	Bank string `json:"bank" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type saveMappingRequest struct {
	WalletName string `json:"wallet_name" binding:"required"`
	CardID     string `json:"card_id" binding:"required"`
}

type saveOverrideRequest struct {
	Pattern    string `json:"pattern" binding:"required"`
	CategoryID string `json:"category_id" binding:"required"`
}

type deleteByKeyRequest struct {
	Key string `json:"key" binding:"required"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleMatchCard resolves a wallet card name. A miss is a normal outcome,
// not an error: the response carries a null match and the client prompts
// for manual selection.
func (s *Server) handleMatchCard(c *gin.Context) {
	var req matchCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match := s.cardMatcher.Match(c.Request.Context(), req.UserID, req.WalletName)
	c.JSON(http.StatusOK, gin.H{"match": match})
}

// handleMatchMerchant classifies a merchant string. Always 200: the
// matcher is total and fallbacks are encoded in the result itself.
func (s *Server) handleMatchMerchant(c *gin.Context) {
	var req matchMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match := s.merchantMatcher.Match(c.Request.Context(), req.UserID, req.MerchantName)
	c.JSON(http.StatusOK, gin.H{
		"category_id":     match.CategoryID,
		"category_name":   match.CategoryName,
		"confidence":      match.Confidence,
		"source":          match.Source,
		"fallback_reason": match.FallbackReason,
	})
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories := make([]categoryResponse, 0, len(model.AllCategories))
	for _, id := range model.AllCategories {
		categories = append(categories, categoryResponse{ID: string(id), Name: id.Name()})
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) handleListCards(c *gin.Context) {
	cards, err := s.store.GetUserCards(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.serverError(c, err, "Failed to list cards")
		return
	}
	if cards == nil {
		cards = []model.Card{}
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

func (s *Server) handleAddCard(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := &model.Card{
		ID:     uuid.NewString(),
		UserID: c.Param("userID"),
		Bank:   req.Bank,
		Name:   req.Name,
	}
	if err := s.store.SaveCard(c.Request.Context(), card); err != nil {
		s.serverError(c, err, "Failed to save card")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	err := s.store.DeleteCard(c.Request.Context(), c.Param("userID"), c.Param("cardID"))
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	if err != nil {
		s.serverError(c, err, "Failed to delete card")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListMappings(c *gin.Context) {
	mappings, err := s.cardMatcher.Mappings(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.serverError(c, err, "Failed to list mappings")
		return
	}
	if mappings == nil {
		mappings = []model.CardNameMapping{}
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

// handleSaveMapping records a user correction. This is the one path where
// storage errors surface to the client: losing a correction silently would
// cause repeated mis-matches.
func (s *Server) handleSaveMapping(c *gin.Context) {
	var req saveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.cardMatcher.SaveMapping(c.Request.Context(), c.Param("userID"), req.WalletName, req.CardID)
	if err != nil {
		s.serverError(c, err, "Failed to save mapping")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteMapping(c *gin.Context) {
	var req deleteByKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.store.DeleteCardMapping(c.Request.Context(), c.Param("userID"), req.Key)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
		return
	}
	if err != nil {
		s.serverError(c, err, "Failed to delete mapping")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListOverrides(c *gin.Context) {
	overrides, err := s.merchantMatcher.Overrides(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.serverError(c, err, "Failed to list overrides")
		return
	}
	if overrides == nil {
		overrides = []model.MerchantOverride{}
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

func (s *Server) handleSaveOverride(c *gin.Context) {
	var req saveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryID := model.CategoryID(req.CategoryID)
	if !categoryID.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + req.CategoryID})
		return
	}

	err := s.merchantMatcher.SaveOverride(c.Request.Context(), c.Param("userID"), req.Pattern, categoryID)
	if err != nil {
		s.serverError(c, err, "Failed to save override")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteOverride(c *gin.Context) {
	var req deleteByKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.store.DeleteMerchantOverride(c.Request.Context(), c.Param("userID"), req.Key)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "override not found"})
		return
	}
	if err != nil {
		s.serverError(c, err, "Failed to delete override")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) serverError(c *gin.Context, err error, msg string) {
	s.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
