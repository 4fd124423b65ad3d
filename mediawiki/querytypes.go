package mediawiki

// TokensQuery defines the query parameters for:
// https://www.mediawiki.org/wiki/API:Tokens
type TokensQuery struct {
	Action string `url:"action"`         // always "query"
	Meta   string `url:"meta"`           // always "tokens"
	Type   string `url:"type,omitempty"` // "login" for a login token; empty means csrf
	Format string `url:"format"`         // always "json"
}

// LoginForm defines the POST body for:
// https://www.mediawiki.org/wiki/API:Login
type LoginForm struct {
	Action   string `url:"action"` // always "login"
	Name     string `url:"lgname"`
	Password string `url:"lgpassword"`
	Token    string `url:"lgtoken"`
	Format   string `url:"format"`
}

// LogoutForm defines the POST body for:
// https://www.mediawiki.org/wiki/API:Logout
type LogoutForm struct {
	Action string `url:"action"` // always "logout"
	Token  string `url:"token"`  // csrf token
	Format string `url:"format"`
}

// RecentChangesQuery defines the query parameters for:
// https://www.mediawiki.org/wiki/API:RecentChanges
type RecentChangesQuery struct {
	Action string `url:"action"` // always "query"
	List   string `url:"list"`   // always "recentchanges"
	Format string `url:"format"`

	// With Dir "older" the API walks backwards in time, so Start has to be the later timestamp.
	Start string `url:"rcstart,omitempty"`
	End   string `url:"rcend,omitempty"`
	Dir   string `url:"rcdir,omitempty"`   // "older" (newest first) or "newer"
	Prop  string `url:"rcprop,omitempty"`  // pipe-separated: title|timestamp|user|comment
	Limit int    `url:"rclimit,omitempty"` // at most 500 for bots
	Type  string `url:"rctype,omitempty"`  // pipe-separated: edit|new|log|external|categorize
}

// RevisionsQuery defines the query parameters for:
// https://www.mediawiki.org/wiki/API:Revisions
type RevisionsQuery struct {
	Action string `url:"action"` // always "query"
	Format string `url:"format"`
	Titles string `url:"titles"` // exactly one title; we never batch
	Prop   string `url:"prop"`   // always "revisions"
	RvProp string `url:"rvprop"` // pipe-separated: timestamp|user|content|comment
}

// ParseQuery defines the query parameters for:
// https://www.mediawiki.org/wiki/API:Parsing_wikitext
type ParseQuery struct {
	Action string `url:"action"` // always "parse"
	Format string `url:"format"`
	Page   string `url:"page"`
	Prop   string `url:"prop"` // "text"
}

// EditForm defines the POST body for:
// https://www.mediawiki.org/wiki/API:Edit
//
// The captcha fields are only filled in on the retry after a ConfirmEdit challenge.
type EditForm struct {
	Action    string `url:"action"` // always "edit"
	Title     string `url:"title"`
	Token     string `url:"token"`
	Format    string `url:"format"`
	Text      string `url:"text"`
	Watchlist string `url:"watchlist,omitempty"`
	Summary   string `url:"summary,omitempty"`
	Bot       bool   `url:"bot,omitempty"`

	CaptchaWord string `url:"captchaword,omitempty"`
	CaptchaID   string `url:"captchaid,omitempty"`
}
