package mediawiki_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/wiki-backup/internal/wikitest"
)

func TestPostEditSuccess(t *testing.T) {
	ctx := context.Background()
	api, srv := newTestAPI(t)
	require.NoError(t, api.Login(ctx))

	ok, raw, err := api.PostEdit(ctx, "Alpha", "new text", "Wiki-Bot Backup")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(raw), `"Success"`)

	require.Len(t, srv.EditForms, 1)
	form := srv.EditForms[0]
	assert.Equal(t, "Alpha", form.Get("title"))
	assert.Equal(t, "new text", form.Get("text"))
	assert.Equal(t, "Wiki-Bot Backup", form.Get("summary"))
	assert.Equal(t, "unwatch", form.Get("watchlist"))
	assert.Equal(t, "true", form.Get("bot"))
	assert.Equal(t, wikitest.CSRFToken, form.Get("token"))
	assert.Empty(t, form.Get("captchaword"))
	assert.Equal(t, "new text", srv.Pages["Alpha"])
}

func TestPostEditSolvesCaptchaOnce(t *testing.T) {
	ctx := context.Background()
	api, srv := newTestAPI(t)
	srv.CaptchaQuestion = "5+2"
	srv.CaptchaAnswer = "7"
	require.NoError(t, api.Login(ctx))

	ok, _, err := api.PostEdit(ctx, "Alpha", "new text", "summary")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, srv.EditForms, 2)
	assert.Empty(t, srv.EditForms[0].Get("captchaword"))
	assert.Equal(t, "7", srv.EditForms[1].Get("captchaword"))
	assert.Equal(t, wikitest.CaptchaID, srv.EditForms[1].Get("captchaid"))
}

func TestPostEditCaptchaRetryFailsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	api, srv := newTestAPI(t)
	srv.CaptchaQuestion = "5+2"
	srv.RejectCaptcha = true
	require.NoError(t, api.Login(ctx))

	ok, raw, err := api.PostEdit(ctx, "Alpha", "new text", "summary")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, string(raw), `"Failure"`)

	// one attempt plus exactly one retry.
	require.Len(t, srv.EditForms, 2)
	assert.Equal(t, "7", srv.EditForms[1].Get("captchaword"))
	_, stored := srv.Pages["Alpha"]
	assert.False(t, stored)
}

func TestPostEditUnsolvableCaptcha(t *testing.T) {
	ctx := context.Background()
	api, srv := newTestAPI(t)
	srv.CaptchaQuestion = "five+two"
	srv.CaptchaAnswer = "7"
	require.NoError(t, api.Login(ctx))

	ok, _, err := api.PostEdit(ctx, "Alpha", "new text", "summary")
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Len(t, srv.EditForms, 1)
}

func TestPostEditRefusedWithoutCaptcha(t *testing.T) {
	ctx := context.Background()
	api, srv := newTestAPI(t)
	require.NoError(t, api.Login(ctx))
	srv.FailActions["edit"] = true

	ok, raw, err := api.PostEdit(ctx, "Alpha", "new text", "summary")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, string(raw), "internal_api_error")
}
