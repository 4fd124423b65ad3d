package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
)

// Login establishes an authenticated session for the bot account: fetch a login token, then post
// the credentials with it.  The session cookies stay in api.Client's jar.
func (api *API) Login(ctx context.Context) error {
	token, err := api.loginToken(ctx)
	if err != nil {
		return fmt.Errorf("mediawiki: couldn't get login token: %w", err)
	}

	status, body, err := api.post(ctx, LoginForm{
		Action:   "login",
		Name:     api.botName,
		Password: api.botPassword,
		Token:    token,
		Format:   "json",
	})
	if err != nil {
		return fmt.Errorf("mediawiki: couldn't post login: %w", err)
	}
	if body, err = checkStatus(status, body, api.BaseURI); err != nil {
		return fmt.Errorf("mediawiki: login failed: %w", err)
	}

	var resp loginResponse
	if err := decode(body, &resp); err != nil {
		return fmt.Errorf("mediawiki: login failed: %w", err)
	}
	if resp.Login == nil {
		return fmt.Errorf("mediawiki: login failed: %w: no login result", ErrUnexpectedResponse)
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("mediawiki: login as %s failed: %s %s", api.botName, resp.Login.Result, resp.Login.Reason)
	}

	api.loggedIn = true
	return nil
}

// Logout ends the session and throws away its cookies.  The API value can log in again
// afterwards.
func (api *API) Logout(ctx context.Context) error {
	if !api.loggedIn {
		return ErrNotLoggedIn
	}

	// whatever happens below, this session is done with.
	defer api.discardSession()

	token, err := api.csrfToken(ctx)
	if err != nil {
		return fmt.Errorf("mediawiki: couldn't get csrf token for logout: %w", err)
	}

	status, body, err := api.post(ctx, LogoutForm{
		Action: "logout",
		Token:  token,
		Format: "json",
	})
	if err != nil {
		return fmt.Errorf("mediawiki: couldn't post logout: %w", err)
	}
	if body, err = checkStatus(status, body, api.BaseURI); err != nil {
		return fmt.Errorf("mediawiki: logout failed: %w", err)
	}

	var resp envelope
	if err := decode(body, &resp); err != nil {
		return fmt.Errorf("mediawiki: logout failed: %w", err)
	}

	return nil
}

// WithSession logs in, runs fn, and logs out again on every way out of fn, panics included.  A
// logout failure is joined onto whatever fn returned.
func (api *API) WithSession(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := api.Login(ctx); err != nil {
		return err
	}

	defer func() {
		if logoutErr := api.Logout(ctx); logoutErr != nil {
			err = errors.Join(err, logoutErr)
		}
	}()

	return fn(ctx)
}

func (api *API) discardSession() {
	api.loggedIn = false
	if api.Client == nil {
		return
	}
	if jar, err := cookiejar.New(nil); err == nil {
		api.Client.Jar = jar
	}
}

func (api *API) loginToken(ctx context.Context) (string, error) {
	resp, err := api.tokens(ctx, loginTokenQuery())
	if err != nil {
		return "", err
	}
	if resp.Query.Tokens.LoginToken == "" {
		return "", fmt.Errorf("%w: empty login token", ErrUnexpectedResponse)
	}
	return resp.Query.Tokens.LoginToken, nil
}

func (api *API) csrfToken(ctx context.Context) (string, error) {
	resp, err := api.tokens(ctx, csrfTokenQuery())
	if err != nil {
		return "", err
	}
	// an anonymous session gets the placeholder token "+\\", which is useless for bot edits.
	if resp.Query.Tokens.CSRFToken == "" || resp.Query.Tokens.CSRFToken == anonymousCSRFToken {
		return "", fmt.Errorf("%w: no csrf token for this session", ErrUnexpectedResponse)
	}
	return resp.Query.Tokens.CSRFToken, nil
}

func (api *API) tokens(ctx context.Context, q TokensQuery) (*tokensResponse, error) {
	body, err := api.get(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't perform request: %w", err)
	}

	var resp tokensResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, fmt.Errorf("%w: no query.tokens in response", ErrUnexpectedResponse)
	}

	return &resp, nil
}

const anonymousCSRFToken = `+\`
