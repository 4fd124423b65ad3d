package mediawiki

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// actionEndpoint returns the api.php URL with opts encoded into the query string.  Everything in
// the action API goes through the one endpoint; the action parameter picks the module:
// https://www.mediawiki.org/wiki/API:Main_page
func (a *API) actionEndpoint(opts any) (*url.URL, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't encode query params: %w", err)
	}

	ep := *a.BaseURI
	ep.RawQuery = v.Encode()

	return &ep, nil
}

// actionForm encodes opts for a POST body.  Passwords and tokens never go in the URL.
func actionForm(opts any) (url.Values, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't encode form params: %w", err)
	}

	return v, nil
}

func loginTokenQuery() TokensQuery {
	return TokensQuery{
		Action: "query",
		Meta:   "tokens",
		Type:   "login",
		Format: "json",
	}
}

func csrfTokenQuery() TokensQuery {
	return TokensQuery{
		Action: "query",
		Meta:   "tokens",
		Format: "json",
	}
}

// recentChangesQuery builds the feed query for one calendar day (the day's date in UTC terms,
// matching the wiki's timestamps).
//
// rcstart/rcend look inverted but aren't: with rcdir=older the API enumerates from rcstart back
// to rcend, so the end of the day goes in rcstart.
func recentChangesQuery(day string) RecentChangesQuery {
	return RecentChangesQuery{
		Action: "query",
		List:   "recentchanges",
		Format: "json",
		Start:  day + "T23:59:00Z",
		End:    day + "T00:00:00Z",
		Dir:    "older",
		Prop:   "title|timestamp|user|comment",
		Limit:  RecentChangesLimit,
		Type:   "edit|new",
	}
}

func revisionsQuery(title string) RevisionsQuery {
	return RevisionsQuery{
		Action: "query",
		Format: "json",
		Titles: title,
		Prop:   "revisions",
		RvProp: "timestamp|user|content|comment",
	}
}

func parseQuery(title string) ParseQuery {
	return ParseQuery{
		Action: "parse",
		Format: "json",
		Page:   title,
		Prop:   "text",
	}
}

// RecentChangesLimit is the largest batch the feed returns to a bot in one request.
const RecentChangesLimit = 500
