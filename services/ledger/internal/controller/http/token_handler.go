package http

import (
	"errors"
	"net/http"

	"pulse/pkg/logger"
	"pulse/services/ledger/internal/entity"
	"pulse/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type TokenHandler struct {
	tokenUseCase    usecase.TokenUseCase
	vaultAddress    string
	operatorKeyHash string
	logger          *logger.Logger
}

func NewTokenHandler(tokenUseCase usecase.TokenUseCase, vaultAddress, operatorKeyHash string, logger *logger.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase:    tokenUseCase,
		vaultAddress:    vaultAddress,
		operatorKeyHash: operatorKeyHash,
		logger:          logger,
	}
}

// GetBalance godoc
// @Summary      Own token balance
// @Tags         token
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /token/balance [get]
func (h *TokenHandler) GetBalance(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.respondBalance(c, caller)
}

// GetBalanceByAddress godoc
// @Summary      Token balance of an address
// @Tags         token
// @Produce      json
// @Param        address path string true "Wallet address"
// @Success      200  {object}  map[string]interface{}
// @Router       /token/balance/{address} [get]
func (h *TokenHandler) GetBalanceByAddress(c *gin.Context) {
	h.respondBalance(c, c.Param("address"))
}

func (h *TokenHandler) respondBalance(c *gin.Context, address string) {
	balance, err := h.tokenUseCase.BalanceOf(c.Request.Context(), address)
	if err != nil {
		h.logger.Error("Failed to get balance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address, "balance": balance})
}

// GetAllowance godoc
// @Summary      Caller's allowance to the ledger vault
// @Tags         token
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /token/allowance [get]
func (h *TokenHandler) GetAllowance(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	allowance, err := h.tokenUseCase.Allowance(c.Request.Context(), caller, h.vaultAddress)
	if err != nil {
		h.logger.Error("Failed to get allowance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":   caller,
		"spender": h.vaultAddress,
		"amount":  allowance,
	})
}

type ApproveRequest struct {
	Amount int64 `json:"amount" binding:"min=0"`
}

// Approve godoc
// @Summary      Approve the ledger vault
// @Description  Authorize the vault to pull up to amount from the caller's balance; overwrites any prior approval
// @Tags         token
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ApproveRequest true "Allowance in smallest token units"
// @Success      200  {object}  map[string]interface{}
// @Router       /token/approve [post]
func (h *TokenHandler) Approve(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenUseCase.Approve(c.Request.Context(), caller, h.vaultAddress, req.Amount); err != nil {
		h.respondTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":   caller,
		"spender": h.vaultAddress,
		"amount":  req.Amount,
	})
}

type TransferRequest struct {
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"`
}

// Transfer godoc
// @Summary      Transfer tokens
// @Tags         token
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TransferRequest true "Recipient and amount"
// @Success      200  {object}  map[string]string
// @Failure      402  {object}  map[string]string
// @Router       /token/transfer [post]
func (h *TokenHandler) Transfer(c *gin.Context) {
	caller := c.GetString("user_id")
	if caller == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenUseCase.Transfer(c.Request.Context(), caller, req.To, req.Amount); err != nil {
		h.respondTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transfer completed"})
}

type MintRequest struct {
	To     string `json:"to" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"`
}

// Mint godoc
// @Summary      Mint tokens
// @Description  Credit an address with freshly minted tokens; requires the operator key
// @Tags         token
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Operator-Key header string true "Operator key"
// @Param        request body MintRequest true "Recipient and amount"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /token/mint [post]
func (h *TokenHandler) Mint(c *gin.Context) {
	if h.operatorKeyHash == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Minting is disabled"})
		return
	}

	operatorKey := c.GetHeader("X-Operator-Key")
	if err := bcrypt.CompareHashAndPassword([]byte(h.operatorKeyHash), []byte(operatorKey)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid operator key"})
		return
	}

	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenUseCase.Mint(c.Request.Context(), req.To, req.Amount); err != nil {
		h.respondTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Minted"})
}

func (h *TokenHandler) respondTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInsufficientBalance),
		errors.Is(err, entity.ErrInsufficientAllowance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Token operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
