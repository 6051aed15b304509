package http

import (
	"errors"
	"net/http"
	"strconv"

	"pulse/pkg/logger"
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerUseCase usecase.LedgerUseCase
	logger        *logger.Logger
}

func NewLedgerHandler(ledgerUseCase usecase.LedgerUseCase, logger *logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerUseCase: ledgerUseCase,
		logger:        logger,
	}
}

type RegisterCreatorRequest struct {
	InitialFee int64 `json:"initial_fee" binding:"required,min=1"`
}

// RegisterCreator godoc
// @Summary      Register as creator
// @Description  Register the authenticated wallet as a creator with an initial subscription fee
// @Tags         creators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterCreatorRequest true "Initial fee in smallest token units"
// @Success      201  {object}  entity.Creator
// @Failure      409  {object}  map[string]string
// @Router       /creators/register [post]
func (h *LedgerHandler) RegisterCreator(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req RegisterCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.ledgerUseCase.RegisterCreator(c.Request.Context(), caller, req.InitialFee)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, creator)
}

type SubscribeRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// Subscribe godoc
// @Summary      Subscribe to a creator
// @Description  Pull the amount from the caller's token balance (requires prior approval of the vault) and extend the 30-day entitlement
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        creator_address path string true "Creator wallet address"
// @Param        request body SubscribeRequest true "Payment amount in smallest token units"
// @Success      200  {object}  entity.Entitlement
// @Failure      402  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /subscriptions/{creator_address} [post]
func (h *LedgerHandler) Subscribe(c *gin.Context) {
	caller := c.GetString("user_id")
	creatorAddress := c.Param("creator_address")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entitlement, err := h.ledgerUseCase.Subscribe(c.Request.Context(), caller, creatorAddress, req.Amount)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, entitlement)
}

type WithdrawRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// Withdraw godoc
// @Summary      Withdraw earnings
// @Description  Pay out part of the caller's withdrawable earnings to their token balance
// @Tags         creators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WithdrawRequest true "Withdrawal amount in smallest token units"
// @Success      200  {object}  entity.Creator
// @Failure      402  {object}  map[string]string
// @Router       /creators/withdraw [post]
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.ledgerUseCase.WithdrawEarnings(c.Request.Context(), caller, req.Amount)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, creator)
}

type UpdateFeeRequest struct {
	NewFee int64 `json:"new_fee" binding:"required,min=1"`
}

// UpdateFee godoc
// @Summary      Update subscription fee
// @Description  Change the caller's advertised subscription fee, effective for future subscriptions only
// @Tags         creators
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateFeeRequest true "New fee in smallest token units"
// @Success      200  {object}  entity.Creator
// @Router       /creators/fee [put]
func (h *LedgerHandler) UpdateFee(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.ledgerUseCase.UpdateSubscriptionFee(c.Request.Context(), caller, req.NewFee)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, creator)
}

// GetCreator godoc
// @Summary      Get creator account
// @Description  Get the ledger record for a creator address; never-registered addresses return the zero record
// @Tags         creators
// @Produce      json
// @Param        creator_address path string true "Creator wallet address"
// @Success      200  {object}  entity.Creator
// @Router       /creators/{creator_address} [get]
func (h *LedgerHandler) GetCreator(c *gin.Context) {
	creatorAddress := c.Param("creator_address")

	creator, err := h.ledgerUseCase.GetCreator(c.Request.Context(), creatorAddress)
	if err != nil {
		h.logger.Error("Failed to get creator: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, creator)
}

// ListCreators godoc
// @Summary      List registered creators
// @Tags         creators
// @Produce      json
// @Param        limit query int false "Number of creators"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /creators [get]
func (h *LedgerHandler) ListCreators(c *gin.Context) {
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	creators, err := h.ledgerUseCase.ListCreators(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list creators: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"creators": creators, "count": len(creators)})
}

// SubscriptionStatus godoc
// @Summary      Own subscription status
// @Description  Whether the authenticated caller currently holds an active entitlement to the creator
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        creator_address path string true "Creator wallet address"
// @Success      200  {object}  map[string]interface{}
// @Router       /subscriptions/{creator_address}/status [get]
func (h *LedgerHandler) SubscriptionStatus(c *gin.Context) {
	caller := c.GetString("user_id")
	creatorAddress := c.Param("creator_address")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.respondEntitlement(c, caller, creatorAddress)
}

// GetEntitlement godoc
// @Summary      Entitlement lookup
// @Description  Point-in-time entitlement check for any (subscriber, creator) pair, used by access-control middleware
// @Tags         subscriptions
// @Produce      json
// @Param        subscriber path string true "Subscriber wallet address"
// @Param        creator_address path string true "Creator wallet address"
// @Success      200  {object}  map[string]interface{}
// @Router       /entitlements/{subscriber}/{creator_address} [get]
func (h *LedgerHandler) GetEntitlement(c *gin.Context) {
	subscriber := c.Param("subscriber")
	creatorAddress := c.Param("creator_address")

	h.respondEntitlement(c, subscriber, creatorAddress)
}

func (h *LedgerHandler) respondEntitlement(c *gin.Context, subscriber, creatorAddress string) {
	active, err := h.ledgerUseCase.IsActiveSubscriber(c.Request.Context(), subscriber, creatorAddress)
	if err != nil {
		h.logger.Error("Failed to check entitlement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	expiresAt, err := h.ledgerUseCase.GetSubscriptionExpiry(c.Request.Context(), subscriber, creatorAddress)
	if err != nil {
		h.logger.Error("Failed to get expiry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriber_address": subscriber,
		"creator_address":    creatorAddress,
		"active":             active,
		"expires_at":         expiresAt,
	})
}

func (h *LedgerHandler) respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrCreatorNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInsufficientBalance),
		errors.Is(err, entity.ErrInsufficientAllowance),
		errors.Is(err, entity.ErrInsufficientEarnings):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Ledger operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
