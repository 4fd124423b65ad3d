package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// get performs a GET against the action API and returns the body of a successful response.
func (api *API) get(ctx context.Context, opts any) ([]byte, error) {
	ep, err := api.actionEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't build endpoint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't instantiate http request: %w", err)
	}

	status, body, err := api.do(req)
	if err != nil {
		return nil, err
	}

	return checkStatus(status, body, ep)
}

// post sends opts form-encoded and returns the status and body whatever the status was; callers
// that care about success use checkStatus themselves.
func (api *API) post(ctx context.Context, opts any) (int, []byte, error) {
	form, err := actionForm(opts)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, api.BaseURI.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("mediawiki: couldn't instantiate http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return api.do(req)
}

func (api *API) do(req *http.Request) (int, []byte, error) {
	req.Header.Add("Accept", "application/json, */*")
	req.Header.Set("User-Agent", userAgent)

	response, err := api.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("mediawiki: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("mediawiki: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return 0, nil, fmt.Errorf("mediawiki: couldn't close response body: %w", err)
	}

	return response.StatusCode, body, nil
}

func checkStatus(status int, body []byte, u *url.URL) ([]byte, error) {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("mediawiki: authentication failed: %d", status)
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("mediawiki: service is not available: %d", status)
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("mediawiki: internal server error: %d", status)
	}

	return nil, fmt.Errorf("mediawiki: unknown HTTP response status: %d: %s", status, u.Redacted())
}

type apiErrorer interface {
	apiError() *APIError
}

func (e envelope) apiError() *APIError {
	return e.Error
}

// decode unmarshals body into v and surfaces an {"error": ...} envelope as *APIError.
func decode(body []byte, v apiErrorer) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: couldn't parse json response: %w", ErrUnexpectedResponse, err)
	}

	if apiErr := v.apiError(); apiErr != nil {
		return apiErr
	}

	return nil
}

const userAgent = "wiki-backup/1.0 (https://github.com/toothbrush/wiki-backup)"
