package auth

import (
	"crypto/subtle"
	"fmt"
	"slices"
	"strings"
)

// Client is a registered client-credentials caller and the scopes it may request.
type Client struct {
	ID     string
	Secret string
	Scopes []string
}

type ClientRegistry struct {
	clients map[string]Client
}

// ParseClients reads "id:secret:scope1 scope2" entries.
func ParseClients(entries []string) (*ClientRegistry, error) {
	r := &ClientRegistry{clients: make(map[string]Client, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return nil, fmt.Errorf("client entry %q: want id:secret:scopes", e)
		}
		r.Add(Client{ID: parts[0], Secret: parts[1], Scopes: strings.Fields(parts[2])})
	}
	return r, nil
}

func (r *ClientRegistry) Add(c Client) {
	r.clients[c.ID] = c
}

func (r *ClientRegistry) Authenticate(id, secret string) (Client, bool) {
	c, ok := r.clients[id]
	if !ok || subtle.ConstantTimeCompare([]byte(c.Secret), []byte(secret)) != 1 {
		return Client{}, false
	}
	return c, true
}

// Grant resolves the space separated requested scopes, defaulting to every
// scope of the client. ok is false if any requested scope is not registered.
func (c Client) Grant(requested string) (string, bool) {
	want := strings.Fields(requested)
	if len(want) == 0 {
		return strings.Join(c.Scopes, " "), true
	}
	for _, s := range want {
		if !slices.Contains(c.Scopes, s) {
			return "", false
		}
	}
	return strings.Join(want, " "), true
}
