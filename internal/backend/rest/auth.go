package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// AuthenticatePath is the gateway login endpoint, relative to the gateway root.
const AuthenticatePath = "api/authenticate"

// ErrInvalidCredentials is returned when the gateway rejects the username or password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	IDToken string `json:"id_token"`
}

// Authenticate exchanges credentials for the gateway's JWT and returns it as
// a bearer token suitable for token.json.
func (c *Client) Authenticate(ctx context.Context, username, password string, rememberMe bool) (*oauth2.Token, error) {
	var resp loginResponse
	err := c.do(ctx, "authenticate", http.MethodPost, c.baseURL+"/"+AuthenticatePath,
		loginRequest{Username: username, Password: password, RememberMe: rememberMe}, &resp)
	if err != nil {
		if code := statusOf(err); code == http.StatusUnauthorized || code == http.StatusForbidden {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.IDToken == "" {
		return nil, fmt.Errorf("authenticate: response has no id_token")
	}
	return &oauth2.Token{AccessToken: resp.IDToken, TokenType: "Bearer"}, nil
}
