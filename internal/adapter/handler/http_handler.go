package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/cart-sync/internal/core/domain"
	"github.com/rl1809/cart-sync/internal/core/service"
)

type HTTPHandler struct {
	cartService *service.CartService
}

type CartItemHTTPResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
}

type CartHTTPResponse struct {
	Username string                 `json:"username"`
	Version  int                    `json:"version"`
	Items    []CartItemHTTPResponse `json:"items"`
}

func NewHTTPHandler(cartService *service.CartService) *HTTPHandler {
	return &HTTPHandler{cartService: cartService}
}

// Register mounts the routes. cartGuard runs in front of the cart view and
// must enforce the same requirement as the GetCart RPC.
func (h *HTTPHandler) Register(r gin.IRouter, cartGuard gin.HandlerFunc) {
	r.GET("/health", h.HealthCheck)
	r.GET("/api/carts/:username", cartGuard, h.GetCart)
}

func (h *HTTPHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := CartHTTPResponse{
		Username: cart.Username,
		Version:  cart.Version,
		Items:    make([]CartItemHTTPResponse, 0, len(cart.Items)),
	}
	for _, it := range cart.Items {
		resp.Items = append(resp.Items, CartItemHTTPResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price.StringFixed(2),
			Color:       it.Color,
			Quantity:    it.Quantity,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
