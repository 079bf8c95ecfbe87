package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrSignedOut is returned by ResolveUser when no access token is configured.
var ErrSignedOut = errors.New("no access token configured")

// ResolveUser returns the signed-in user's id, asking the auth service once
// and caching the answer. A configured Config.UserID short-circuits the call.
func (c *Client) ResolveUser(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.userID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}
	if c.cfg.AccessToken == "" {
		return "", ErrSignedOut
	}
	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("/auth/v1/user", nil), nil, nil, &user); err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	if user.ID == "" {
		return "", errors.New("resolve user: empty id")
	}
	c.mu.Lock()
	c.userID = user.ID
	c.mu.Unlock()
	c.logger.Info("signed in", zap.String("user", user.ID), zap.String("email", user.Email))
	return user.ID, nil
}

// CurrentUserID reports the id cached by ResolveUser or pinned in Config.
// It implements session.Identity.
func (c *Client) CurrentUserID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.userID != ""
}
