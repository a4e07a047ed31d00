package restapi

import (
	"net/http"

	"walletbridge/internal/app/service"
	"walletbridge/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// BridgeHandler exposes the connection controller and token operations to the
// hosting page.
type BridgeHandler struct {
	connections *service.ConnectionService
	tokens      *service.TokenService
}

// NewBridgeHandler creates the handler set.
func NewBridgeHandler(connections *service.ConnectionService, tokens *service.TokenService) *BridgeHandler {
	return &BridgeHandler{
		connections: connections,
		tokens:      tokens,
	}
}

type connectRequest struct {
	Chain entity.SupportedChain `json:"chain" binding:"required"`
}

type tokenOpRequest struct {
	Chain   entity.SupportedChain `json:"chain" binding:"required"`
	Address string                `json:"address" binding:"required"`
	Amount  string                `json:"amount" binding:"required"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Kind  entity.ErrorKind `json:"kind"`
}

// ConnectHandler triggers a wallet connection for the selected chain.
func (h *BridgeHandler) ConnectHandler(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "chain is required (BSC or TRON)", Kind: entity.KindRequest})
		return
	}

	result, err := h.connections.Connect(c.Request.Context(), req.Chain)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DisconnectHandler clears the connection state.
func (h *BridgeHandler) DisconnectHandler(c *gin.Context) {
	h.connections.Disconnect()
	c.Status(http.StatusNoContent)
}

// ConnectionHandler returns the current connection state, if any.
func (h *BridgeHandler) ConnectionHandler(c *gin.Context) {
	current := h.connections.Current()
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true, "connection": current})
}

// SwitchNetworkHandler requests a network switch toward the selected chain.
// For TRON the response carries the manual-switch prompt instead.
func (h *BridgeHandler) SwitchNetworkHandler(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "chain is required (BSC or TRON)", Kind: entity.KindRequest})
		return
	}

	prompt, err := h.connections.RequestNetworkSwitch(c.Request.Context(), req.Chain)
	if err != nil {
		writeError(c, err)
		return
	}
	if prompt != "" {
		c.JSON(http.StatusOK, gin.H{"switched": false, "prompt": prompt})
		return
	}
	c.JSON(http.StatusOK, gin.H{"switched": true})
}

// MintHandler mints tokens to the given address.
func (h *BridgeHandler) MintHandler(c *gin.Context) {
	var req tokenOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "chain, address and amount are required", Kind: entity.KindRequest})
		return
	}

	txID, err := h.tokens.Mint(c.Request.Context(), req.Chain, req.Address, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"txId": txID})
}

// BurnHandler burns tokens from the given address.
func (h *BridgeHandler) BurnHandler(c *gin.Context) {
	var req tokenOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "chain, address and amount are required", Kind: entity.KindRequest})
		return
	}

	txID, err := h.tokens.Burn(c.Request.Context(), req.Chain, req.Address, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"txId": txID})
}

// BalanceHandler returns the formatted balance, or the sentinel when the
// query failed. Always 200: balance feeds passive display.
func (h *BridgeHandler) BalanceHandler(c *gin.Context) {
	chain := entity.SupportedChain(c.Query("chain"))
	address := c.Query("address")
	if !chain.Valid() || address == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "chain and address query parameters are required", Kind: entity.KindRequest})
		return
	}

	balance := h.tokens.BalanceOf(c.Request.Context(), chain, address)
	c.JSON(http.StatusOK, gin.H{"balance": balance, "available": balance != service.BalanceUnavailable})
}

// writeError maps the error taxonomy onto HTTP statuses, preserving the most
// specific message available for the user-visible error text.
func writeError(c *gin.Context, err error) {
	kind := entity.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case entity.KindConfig, entity.KindSanity:
		status = http.StatusInternalServerError
	case entity.KindWalletAbsent, entity.KindWalletLocked, entity.KindWalletCapability, entity.KindWalletNotInjected:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, errorResponse{Error: err.Error(), Kind: kind})
}
