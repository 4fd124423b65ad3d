package mediawiki

import "encoding/json"

// Every action response may carry an "error" envelope instead of (or next to) its payload.
type envelope struct {
	Error *APIError `json:"error,omitempty"`
}

// tokensResponse type for action=query&meta=tokens
type tokensResponse struct {
	envelope
	Query *struct {
		Tokens struct {
			LoginToken string `json:"logintoken"`
			CSRFToken  string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

// loginResponse type for action=login
type loginResponse struct {
	envelope
	Login *struct {
		Result   string `json:"result"`
		Reason   string `json:"reason,omitempty"`
		UserID   int    `json:"lguserid,omitempty"`
		UserName string `json:"lgusername,omitempty"`
	} `json:"login"`
}

// recentChangesResponse type for action=query&list=recentchanges
type recentChangesResponse struct {
	envelope
	Query *struct {
		RecentChanges []Change `json:"recentchanges"`
	} `json:"query"`

	// Present only when there's another batch to fetch.
	Continue map[string]json.RawMessage `json:"continue,omitempty"`
}

// revisionsResponse type for action=query&prop=revisions.  Pages are keyed by page ID, and a
// title that doesn't exist comes back under the key "-1".
type revisionsResponse struct {
	envelope
	Query *struct {
		Pages map[string]struct {
			PageID    int        `json:"pageid"`
			Title     string     `json:"title"`
			Missing   *string    `json:"missing,omitempty"`
			Revisions []Revision `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// parseResponse type for action=parse&prop=text
type parseResponse struct {
	envelope
	Parse *struct {
		Title string `json:"title"`
		Text  struct {
			HTML string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
}

// editResponse type for action=edit
type editResponse struct {
	envelope
	Edit *struct {
		Result   string   `json:"result"`
		Title    string   `json:"title,omitempty"`
		NewRevID int      `json:"newrevid,omitempty"`
		Captcha  *Captcha `json:"captcha,omitempty"`
	} `json:"edit"`
}

// missingPageID is the sentinel page ID for titles that don't exist.
const missingPageID = "-1"
