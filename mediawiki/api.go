package mediawiki

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

func NewAPI(endpoint string, botName string, botPassword string) (*API, error) {

	if endpoint == "" {
		return nil, fmt.Errorf("mediawiki: configure the API endpoint (url) of your wiki")
	}
	if botName == "" {
		return nil, fmt.Errorf("mediawiki: configure a bot name (botName) for %s", endpoint)
	}
	if botPassword == "" {
		return nil, fmt.Errorf("mediawiki: bot password (botPassword) is empty for %s", endpoint)
	}

	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't parse API URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't create cookie jar: %w", err)
	}

	a := &API{
		BaseURI:     u,
		botName:     botName,
		botPassword: botPassword,
	}
	a.Client = &http.Client{Jar: jar}

	return a, nil
}

type API struct {
	// The api.php endpoint of the wiki, e.g. https://wiki.example.org/w/api.php
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.  Keep a cookie jar on it, the session
	// lives in there.
	Client *http.Client

	// Auth info
	botName, botPassword string

	loggedIn bool
}

// LoggedIn reports whether Login succeeded and Logout hasn't been called since.
func (api *API) LoggedIn() bool {
	return api.loggedIn
}

// Endpoint is the api.php URL the client talks to.
func (api *API) Endpoint() *url.URL {
	return api.BaseURI
}
