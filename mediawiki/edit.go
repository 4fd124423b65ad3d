package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// PostEdit replaces the text of title.  If the wiki answers with a ConfirmEdit arithmetic captcha,
// the answer is computed and the edit resubmitted once; a second failure is reported as-is.
//
// success is true when the wiki answered 200 with edit.result == "Success".  raw is the body of
// the last response, for the caller to log.  err is only set for transport and decoding trouble,
// or a captcha that can't be solved: a refused edit is not an error.
func (api *API) PostEdit(ctx context.Context, title string, text string, summary string) (success bool, raw json.RawMessage, err error) {
	if !api.loggedIn {
		return false, nil, ErrNotLoggedIn
	}

	token, err := api.csrfToken(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("mediawiki: couldn't get csrf token for edit: %w", err)
	}

	form := EditForm{
		Action:    "edit",
		Title:     title,
		Token:     token,
		Format:    "json",
		Text:      text,
		Watchlist: "unwatch",
		Summary:   summary,
		Bot:       true,
	}

	success, raw, resp, err := api.submitEdit(ctx, form)
	if err != nil || success {
		return success, raw, err
	}

	if resp == nil || resp.Edit == nil || resp.Edit.Captcha == nil {
		return false, raw, nil
	}

	answer, err := Answer(resp.Edit.Captcha.Question)
	if err != nil {
		return false, raw, fmt.Errorf("mediawiki: edit of %q: %w", title, err)
	}
	form.CaptchaWord = strconv.Itoa(answer)
	form.CaptchaID = string(resp.Edit.Captcha.ID)

	success, raw, _, err = api.submitEdit(ctx, form)
	return success, raw, err
}

// submitEdit posts one edit.  resp is nil when the body isn't an edit response at all (an HTML
// error page, say); that's a failed edit, not an error.
func (api *API) submitEdit(ctx context.Context, form EditForm) (bool, json.RawMessage, *editResponse, error) {
	status, body, err := api.post(ctx, form)
	if err != nil {
		return false, nil, nil, fmt.Errorf("mediawiki: couldn't post edit: %w", err)
	}

	var resp editResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, body, nil, nil
	}

	return editSucceeded(status, &resp), body, &resp, nil
}

func editSucceeded(status int, resp *editResponse) bool {
	if status != http.StatusOK {
		return false
	}
	if resp.Edit == nil {
		return false
	}
	return resp.Edit.Result == "Success"
}
