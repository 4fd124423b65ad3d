package mediawiki

import (
	"context"
	"fmt"
	"time"
)

// RecentChanges returns the edits and page creations made on the calendar day of day, newest
// first, at most RecentChangesLimit of them.
func (api *API) RecentChanges(ctx context.Context, day time.Time) (*RecentChangesResult, error) {
	if !api.loggedIn {
		return nil, ErrNotLoggedIn
	}

	body, err := api.get(ctx, recentChangesQuery(day.Format(time.DateOnly)))
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't perform request: %w", err)
	}

	var resp recentChangesResponse
	if err := decode(body, &resp); err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't list recent changes: %w", err)
	}
	if resp.Query == nil {
		return nil, fmt.Errorf("mediawiki: couldn't list recent changes: %w: no query in response", ErrUnexpectedResponse)
	}

	return &RecentChangesResult{
		Changes:   resp.Query.RecentChanges,
		Truncated: len(resp.Continue) > 0,
	}, nil
}

// LatestRevision fetches content and metadata of the newest revision of title.  It returns nil
// and no error when the page doesn't exist.
func (api *API) LatestRevision(ctx context.Context, title string) (*Revision, error) {
	if !api.loggedIn {
		return nil, ErrNotLoggedIn
	}

	body, err := api.get(ctx, revisionsQuery(title))
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't perform request: %w", err)
	}

	var resp revisionsResponse
	if err := decode(body, &resp); err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't fetch revision of %q: %w", title, err)
	}
	if resp.Query == nil || len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("mediawiki: couldn't fetch revision of %q: %w: no pages in response", title, ErrUnexpectedResponse)
	}

	if _, ok := resp.Query.Pages[missingPageID]; ok {
		return nil, nil
	}

	// we asked for exactly one title, so there's exactly one page.
	for _, page := range resp.Query.Pages {
		if page.Missing != nil {
			return nil, nil
		}
		if len(page.Revisions) == 0 {
			return nil, fmt.Errorf("mediawiki: page %q has no revisions: %w", title, ErrUnexpectedResponse)
		}
		rev := page.Revisions[0]
		return &rev, nil
	}

	return nil, nil
}

// RenderedHTML returns the parser output of the current revision of title.
func (api *API) RenderedHTML(ctx context.Context, title string) (string, error) {
	if !api.loggedIn {
		return "", ErrNotLoggedIn
	}

	body, err := api.get(ctx, parseQuery(title))
	if err != nil {
		return "", fmt.Errorf("mediawiki: couldn't perform request: %w", err)
	}

	var resp parseResponse
	if err := decode(body, &resp); err != nil {
		return "", fmt.Errorf("mediawiki: couldn't parse %q: %w", title, err)
	}
	if resp.Parse == nil {
		return "", fmt.Errorf("mediawiki: couldn't parse %q: %w: no parse in response", title, ErrUnexpectedResponse)
	}

	return resp.Parse.Text.HTML, nil
}
