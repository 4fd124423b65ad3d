package mediawiki

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn is returned by every call that needs a session when Login hasn't succeeded.
	ErrNotLoggedIn = errors.New("mediawiki: not logged in")

	// ErrUnexpectedResponse covers bodies that don't decode into the shape the action promises,
	// or that decode but lack a field we need (a token, a revision, ...).
	ErrUnexpectedResponse = errors.New("mediawiki: unexpected response")

	// ErrCaptchaUnsolvable means the captcha question had an operand that isn't an integer.
	ErrCaptchaUnsolvable = errors.New("mediawiki: captcha question not solvable")
)

// APIError is the {"error": {...}} envelope MediaWiki returns with HTTP 200.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki: api error %s: %s", e.Code, e.Info)
}

// See https://www.mediawiki.org/wiki/API:RecentChanges#Response.  One entry of the feed; we only
// ask for title|timestamp|user|comment, type and ns come for free.
type Change struct {
	Type      string `json:"type"`
	Namespace int    `json:"ns"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Comment   string `json:"comment"`
}

// Revision is the latest revision of a page, in the legacy (formatversion=1) shape where the
// wikitext lives under the "*" key.
type Revision struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Comment   string `json:"comment"`

	ContentModel  string `json:"contentmodel,omitempty"`
	ContentFormat string `json:"contentformat,omitempty"`
	Content       string `json:"*"`
}

// RecentChangesResult is what RecentChanges hands back.  Truncated is set when the wiki had more
// than one batch (rclimit) of changes for the day; only the newest batch is included.
type RecentChangesResult struct {
	Changes   []Change
	Truncated bool
}

// Captcha is the ConfirmEdit challenge attached to a failed edit.
type Captcha struct {
	Type     string     `json:"type"`
	Mime     string     `json:"mime"`
	ID       flexString `json:"id"`
	Question string     `json:"question"`
}

// flexString decodes a JSON string or number into a string.  Captcha IDs are strings on most
// wikis, numbers on some.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
