package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/cart-sync/internal/adapter/auth"
)

// IdentityHandler serves discovery and the client-credentials token endpoint.
type IdentityHandler struct {
	issuer  *auth.Issuer
	clients *auth.ClientRegistry
	baseURL string
	log     *slog.Logger
}

func NewIdentityHandler(issuer *auth.Issuer, clients *auth.ClientRegistry, baseURL string, log *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		issuer:  issuer,
		clients: clients,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

func (h *IdentityHandler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(auth.DiscoveryPath, h.Discovery)
	r.POST("/connect/token", h.Token)
}

func (h *IdentityHandler) Discovery(c *gin.Context) {
	base := h.baseURL
	if base == "" {
		base = "http://" + c.Request.Host
	}
	c.JSON(http.StatusOK, auth.DiscoveryDocument{
		Issuer:        h.issuer.Name(),
		TokenEndpoint: base + "/connect/token",
	})
}

func (h *IdentityHandler) Token(c *gin.Context) {
	if gt := c.PostForm("grant_type"); gt != "client_credentials" {
		c.JSON(http.StatusBadRequest, auth.TokenError{Error: "unsupported_grant_type"})
		return
	}

	clientID, secret := c.PostForm("client_id"), c.PostForm("client_secret")
	if id, pw, ok := c.Request.BasicAuth(); ok {
		clientID, secret = id, pw
	}

	client, ok := h.clients.Authenticate(clientID, secret)
	if !ok {
		h.log.Warn("token request rejected", "client_id", clientID, "reason", "invalid_client")
		c.JSON(http.StatusUnauthorized, auth.TokenError{Error: "invalid_client"})
		return
	}

	scope, ok := client.Grant(c.PostForm("scope"))
	if !ok {
		h.log.Warn("token request rejected", "client_id", clientID, "reason", "invalid_scope")
		c.JSON(http.StatusBadRequest, auth.TokenError{Error: "invalid_scope"})
		return
	}

	token, err := h.issuer.Issue(client.ID, scope)
	if err != nil {
		h.log.Error("failed to issue token", "client_id", clientID, "err", err)
		c.JSON(http.StatusInternalServerError, auth.TokenError{Error: "server_error"})
		return
	}

	h.log.Info("token issued", "client_id", clientID, "scope", scope)
	c.JSON(http.StatusOK, auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.issuer.TTL().Seconds()),
		Scope:       scope,
	})
}
