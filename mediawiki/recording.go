package mediawiki

import (
	"fmt"
	"net/http"
	"net/url"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// Record routes the API's traffic through a go-vcr recorder backed by cassetteName (".yaml" is
// appended by go-vcr).  Bot passwords and session cookies are scrubbed before anything is saved.
// Stop the recorder when done, that's when the cassette is written.
func (api *API) Record(cassetteName string, mode recorder.Mode) (*recorder.Recorder, error) {
	opts := &recorder.Options{
		CassetteName:       cassetteName,
		Mode:               mode,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("mediawiki: couldn't set up go-vcr recording: %w", err)
	}

	r.AddHook(scrubInteraction, recorder.AfterCaptureHook)

	// keep the cookie jar, swap the transport.
	if api.Client == nil {
		api.Client = &http.Client{}
	}
	api.Client.Transport = r

	return r, nil
}

func scrubInteraction(i *cassette.Interaction) error {
	delete(i.Request.Headers, "Cookie")
	delete(i.Request.Headers, "Authorization")
	delete(i.Response.Headers, "Set-Cookie")

	if i.Request.Form.Has("lgpassword") {
		i.Request.Form.Set("lgpassword", redacted)
	}

	if i.Request.Body != "" {
		form, err := url.ParseQuery(i.Request.Body)
		if err == nil && form.Has("lgpassword") {
			form.Set("lgpassword", redacted)
			i.Request.Body = form.Encode()
		}
	}

	return nil
}

const redacted = "REDACTED"
