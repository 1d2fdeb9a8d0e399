package search

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
)

// User fetches the account behind the token. A non-200 status is reported
// through status with an empty login.
func (c *Client) User(ctx context.Context) (login string, status int, err error) {
	resp, err := c.session.Get(ctx, c.session.URL("/user"), nil)
	if err != nil {
		return "", 0, err
	}
	if resp.Status != fhttp.StatusOK {
		c.logger.Info().
			Int("status", resp.Status).
			Str("response", truncateBody(resp.Body)).
			Msg("authentication request failed")
		return "", resp.Status, nil
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := resp.Decode(&user); err != nil {
		c.logger.Warn().Err(err).Msg("could not decode authenticated user")
	}
	c.logger.Info().Str("login", user.Login).Msg("authenticated")
	return user.Login, resp.Status, nil
}

// Authenticate reports whether GET /user answers 200.
func (c *Client) Authenticate(ctx context.Context) (bool, error) {
	_, status, err := c.User(ctx)
	if err != nil {
		return false, err
	}
	return status == fhttp.StatusOK, nil
}
