package localdump

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/toothbrush/wiki-backup/mediawiki"
	"gopkg.in/yaml.v3"
)

// ConvertToMarkdown turns the parser output of a page into GitHub-flavoured Markdown with a YAML
// header describing the revision.  endpoint is the wiki's api.php URL; links in the HTML are made
// absolute against its host.
func ConvertToMarkdown(endpoint *url.URL, source string, title string, rev mediawiki.Revision, html string) (LocalMarkdown, error) {
	// md.NewConverter only takes a hostname, not a base URI, so fill in the scheme ourselves.  Same
	// trick as https://github.com/JohannesKaufmann/html-to-markdown/issues/44
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				// we can't do anything with this url because it is invalid
				return rawURL
			}

			if u.Scheme == "data" {
				// this is a data uri (for example an inline base64 image)
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = endpoint.Scheme
			}
			if u.Host == "" {
				u.Host = domain // this comes from the first arg to md.NewConverter
			}

			return u.String()
		},
	}

	converter := md.NewConverter(endpoint.Host, true, opt)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return LocalMarkdown{}, fmt.Errorf("localdump: failed to convert %q to Markdown: %w", title, err)
	}

	timestamp, err := time.Parse(time.RFC3339, rev.Timestamp)
	if err != nil {
		return LocalMarkdown{}, fmt.Errorf("localdump: couldn't parse timestamp %s: %w", rev.Timestamp, err)
	}

	header := MarkdownHeader{
		Title:     title,
		Timestamp: timestamp,
		Author:    rev.User,
		Comment:   rev.Comment,
		URI:       PageURI(endpoint, title),
		Source:    source,
	}

	yamlHeader, err := yaml.Marshal(header)
	if err != nil {
		return LocalMarkdown{}, fmt.Errorf("localdump: couldn't marshal header YAML: %w", err)
	}

	body := fmt.Sprintf(`---
%s
---
%s
`,
		strings.TrimSpace(string(yamlHeader)),
		markdown)

	filename := markdownFilename(ToFilename(title))

	return LocalMarkdown{
		Content:      body,
		Title:        title,
		RelativePath: RelativePath(path.Join(source, markdownDir, filename)),
	}, nil
}

// PageURI is the human-facing address of title: index.php next to api.php.
func PageURI(endpoint *url.URL, title string) string {
	u := *endpoint
	u.Path = path.Join(path.Dir(endpoint.Path), "index.php")
	u.RawQuery = url.Values{"title": {title}}.Encode()
	return u.String()
}
