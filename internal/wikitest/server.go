// Package wikitest runs a small in-memory imitation of the MediaWiki action API for tests.  It
// knows just enough of login, logout, tokens, recentchanges, revisions, parse and edit to drive the
// client the way a real wiki would.
package wikitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/toothbrush/wiki-backup/mediawiki"
)

const (
	BotName     = "Backup@bot"
	BotPassword = "hunter2hunter2hunter2"

	LoginToken = `login-token+\`
	CSRFToken  = `csrf-token+\`
	CaptchaID  = "1234567"

	sessionCookie = "wikitest_session"
	sessionValue  = "s3ss10n"
)

type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Pages maps title to wikitext; missing titles are reported with page id -1.
	Pages map[string]string
	// HTML maps title to rendered HTML for action=parse.
	HTML map[string]string
	// Changes is the recent-changes feed handed back for any window.
	Changes []mediawiki.Change
	// Truncated adds a "continue" block to the feed.
	Truncated bool
	// BrokenTitles answer revision queries with HTTP 500.
	BrokenTitles map[string]bool
	// FailActions answer the named actions with an {"error": ...} envelope.
	FailActions map[string]bool

	// CaptchaQuestion, when set, makes edits without the right captchaword fail with a captcha.
	CaptchaQuestion string
	CaptchaAnswer   string
	// RejectCaptcha makes every edit fail, captcha or not.
	RejectCaptcha bool

	Logins, Logouts int
	// RecentChangesQueries records the query string of every recentchanges request.
	RecentChangesQueries []url.Values
	// EditForms records the form of every edit request.
	EditForms []url.Values
	// RevisionTitles records the titles asked for, in order.
	RevisionTitles []string
}

func NewServer() *Server {
	s := &Server{
		Pages:        map[string]string{},
		HTML:         map[string]string{},
		BrokenTitles: map[string]bool{},
		FailActions:  map[string]bool{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns the api.php URL of the fake wiki.
func (s *Server) Endpoint() string {
	return s.URL + "/w/api.php"
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	action := r.Form.Get("action")
	if s.FailActions[action] {
		writeJSON(w, map[string]any{"error": map[string]string{"code": "internal_api_error", "info": "wikitest: " + action + " broken"}})
		return
	}

	switch action {
	case "query":
		switch {
		case r.Form.Get("meta") == "tokens":
			s.tokens(w, r)
		case r.Form.Get("list") == "recentchanges":
			s.recentChanges(w, r)
		case r.Form.Get("prop") == "revisions":
			s.revisions(w, r)
		default:
			http.Error(w, "wikitest: unsupported query", http.StatusBadRequest)
		}
	case "login":
		s.login(w, r)
	case "logout":
		s.logout(w, r)
	case "parse":
		s.parse(w, r)
	case "edit":
		s.edit(w, r)
	default:
		http.Error(w, "wikitest: unsupported action "+action, http.StatusBadRequest)
	}
}

func (s *Server) authenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == sessionValue
}

func (s *Server) tokens(w http.ResponseWriter, r *http.Request) {
	if r.Form.Get("type") == "login" {
		writeJSON(w, map[string]any{"query": map[string]any{"tokens": map[string]string{"logintoken": LoginToken}}})
		return
	}

	token := `+\`
	if s.authenticated(r) {
		token = CSRFToken
	}
	writeJSON(w, map[string]any{"query": map[string]any{"tokens": map[string]string{"csrftoken": token}}})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "wikitest: login must be POSTed", http.StatusMethodNotAllowed)
		return
	}

	if r.PostForm.Get("lgtoken") != LoginToken ||
		r.PostForm.Get("lgname") != BotName ||
		r.PostForm.Get("lgpassword") != BotPassword {
		writeJSON(w, map[string]any{"login": map[string]string{"result": "Failed", "reason": "Incorrect username or password entered."}})
		return
	}

	s.Logins++
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionValue, Path: "/"})
	writeJSON(w, map[string]any{"login": map[string]any{"result": "Success", "lguserid": 42, "lgusername": "Backup"}})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.PostForm.Get("token") != CSRFToken {
		writeJSON(w, map[string]any{"error": map[string]string{"code": "badtoken", "info": "Invalid CSRF token."}})
		return
	}

	s.Logouts++
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, map[string]any{})
}

func (s *Server) recentChanges(w http.ResponseWriter, r *http.Request) {
	s.RecentChangesQueries = append(s.RecentChangesQueries, r.URL.Query())

	changes := s.Changes
	if changes == nil {
		changes = []mediawiki.Change{}
	}
	resp := map[string]any{
		"batchcomplete": "",
		"query":         map[string]any{"recentchanges": changes},
	}
	if s.Truncated {
		resp["continue"] = map[string]string{"rccontinue": "20240101000000|1", "continue": "-||"}
	}
	writeJSON(w, resp)
}

func (s *Server) revisions(w http.ResponseWriter, r *http.Request) {
	title := r.Form.Get("titles")
	s.RevisionTitles = append(s.RevisionTitles, title)

	if s.BrokenTitles[title] {
		http.Error(w, "wikitest: broken page", http.StatusInternalServerError)
		return
	}

	content, ok := s.Pages[title]
	if !ok {
		writeJSON(w, map[string]any{"query": map[string]any{"pages": map[string]any{
			"-1": map[string]any{"ns": 0, "title": title, "missing": ""},
		}}})
		return
	}

	writeJSON(w, map[string]any{"query": map[string]any{"pages": map[string]any{
		"12": map[string]any{
			"pageid": 12,
			"ns":     0,
			"title":  title,
			"revisions": []map[string]string{{
				"user":          "Editor",
				"timestamp":     "2024-03-01T10:00:00Z",
				"comment":       "edit summary",
				"contentformat": "text/x-wiki",
				"contentmodel":  "wikitext",
				"*":             content,
			}},
		},
	}}})
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	title := r.Form.Get("page")
	html, ok := s.HTML[title]
	if !ok {
		writeJSON(w, map[string]any{"error": map[string]string{"code": "missingtitle", "info": "The page you specified doesn't exist."}})
		return
	}
	writeJSON(w, map[string]any{"parse": map[string]any{"title": title, "pageid": 12, "text": map[string]string{"*": html}}})
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	s.EditForms = append(s.EditForms, r.PostForm)

	if r.PostForm.Get("token") != CSRFToken {
		writeJSON(w, map[string]any{"error": map[string]string{"code": "badtoken", "info": "Invalid CSRF token."}})
		return
	}

	needsCaptcha := s.CaptchaQuestion != "" &&
		(r.PostForm.Get("captchaword") != s.CaptchaAnswer || r.PostForm.Get("captchaid") != CaptchaID)
	if needsCaptcha || s.RejectCaptcha {
		writeJSON(w, map[string]any{"edit": map[string]any{
			"result": "Failure",
			"captcha": map[string]string{
				"type":     "math",
				"mime":     "text/tex",
				"id":       CaptchaID,
				"question": s.CaptchaQuestion,
			},
		}})
		return
	}

	title := r.PostForm.Get("title")
	s.Pages[title] = r.PostForm.Get("text")
	writeJSON(w, map[string]any{"edit": map[string]any{
		"result":   "Success",
		"pageid":   12,
		"title":    title,
		"newrevid": 100 + len(s.EditForms),
	}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("wikitest: couldn't encode response: %v", err))
	}
}
