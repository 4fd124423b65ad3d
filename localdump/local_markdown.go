package localdump

import (
	"strings"
	"time"
)

// The snapshot of one page lives at <source>/data/<filename>.  Markdown renders, when asked for,
// go next door in <source>/markdown.
const (
	dataDir      = "data"
	markdownDir  = "markdown"
	textSuffix   = ".txt"
	markdownExt  = ".md"
	dirMode      = 0750
	snapshotMode = 0644

	// NAME_MAX on the filesystems git trees usually live on
	maxFilenameBytes = 255
)

// ToFilename maps a page title to its snapshot filename.  Slashes (subpages) and colons
// (namespaces) are percent-escaped so the title stays a single portable path segment; MediaWiki
// forbids %XX sequences in titles, so the mapping can't collide.
//
// Titles may be up to 255 bytes, so with escaping and the suffix the result can outgrow a single
// path segment.  The Writer refuses such names with ErrFilenameTooLong rather than truncating.
func ToFilename(title string) string {
	name := strings.ReplaceAll(title, "/", "%2F")
	name = strings.ReplaceAll(name, ":", "%3A")
	return name + textSuffix
}

// markdownFilename swaps the snapshot's .txt for .md.
func markdownFilename(filename string) string {
	return strings.TrimSuffix(filename, textSuffix) + markdownExt
}

// RelativePath is relative to the store root, which is also the git work tree.
type RelativePath string

// LocalMarkdown is a rendered page ready to be written.
type LocalMarkdown struct {
	// contents of the file, header included
	Content string

	Title string

	// where it goes, relative to the store root
	RelativePath RelativePath
}

type MarkdownHeader struct {
	Title     string    `yaml:"title"`
	Timestamp time.Time `yaml:"date"`
	Author    string    `yaml:"author,omitempty"`
	Comment   string    `yaml:"comment,omitempty"`
	URI       string    `yaml:"uri"`
	Source    string    `yaml:"source"`
}
