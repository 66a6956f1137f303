package backend

import (
	"context"

	"github.com/rpupo63/realestate-site/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for an access token. Bad credentials surface as
// errs.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	var result models.LoginResult
	err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &result)
	return result, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// Me returns the user owning the token carried by ctx (see WithToken).
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.get(ctx, "/auth/me", nil, &user)
	return user, err
}
