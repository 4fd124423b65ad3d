package localdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFilename(t *testing.T) {
	tests := map[string]string{
		"Alpha":                "Alpha.txt",
		"Alpha/Beta":           "Alpha%2FBeta.txt",
		"模板:Infobox":           "模板%3AInfobox.txt",
		"Help:Contents/Editing": "Help%3AContents%2FEditing.txt",
		"a:b/c:d":              "a%3Ab%2Fc%3Ad.txt",
	}

	for title, want := range tests {
		assert.Equal(t, want, ToFilename(title), title)
	}
}

func TestToFilenameDistinctTitlesDontCollide(t *testing.T) {
	titles := []string{
		"A/B", "A:B", "A%B", "AB", "A/B/C", "A:B:C", "A/B:C", "A:B/C",
		"/A", ":A", "A/", "A:", "Help:A/B", "Help/A:B",
	}

	seen := map[string]string{}
	for _, title := range titles {
		name := ToFilename(title)
		if other, ok := seen[name]; ok {
			t.Errorf("%q and %q both map to %q", other, title, name)
		}
		seen[name] = title

		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, ":")
	}
}

func TestEnsureSourceDirsIsIdempotent(t *testing.T) {
	w := Writer{Root: t.TempDir()}

	require.NoError(t, w.EnsureSourceDirs("zhwiki"))
	require.NoError(t, w.EnsureSourceDirs("zhwiki"))

	info, err := os.Stat(filepath.Join(w.Root, "zhwiki", "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureSourceDirsNeedsRoot(t *testing.T) {
	w := Writer{Root: filepath.Join(t.TempDir(), "does-not-exist")}
	assert.Error(t, w.EnsureSourceDirs("zhwiki"))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	w = Writer{Root: file}
	assert.ErrorContains(t, w.EnsureSourceDirs("zhwiki"), "not a directory")
}

func TestWritePageRoundTrip(t *testing.T) {
	w := Writer{Root: t.TempDir()}
	require.NoError(t, w.EnsureSourceDirs("zhwiki"))

	// line endings, trailing whitespace and non-ASCII must all survive untouched.
	content := "== 標題 ==\r\nline one  \n\tline two\r\n\n"
	rel, err := w.WritePage("zhwiki", ToFilename("Help:A/B"), content)
	require.NoError(t, err)
	assert.Equal(t, RelativePath("zhwiki/data/Help%3AA%2FB.txt"), rel)

	raw, err := os.ReadFile(filepath.Join(w.Root, "zhwiki", "data", "Help%3AA%2FB.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte(content), raw)

	got, err := w.ReadPage("zhwiki", ToFilename("Help:A/B"))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWritePageOverwrites(t *testing.T) {
	w := Writer{Root: t.TempDir()}
	require.NoError(t, w.EnsureSourceDirs("zhwiki"))

	_, err := w.WritePage("zhwiki", "Alpha.txt", "a much longer first version of the page")
	require.NoError(t, err)
	_, err = w.WritePage("zhwiki", "Alpha.txt", "short")
	require.NoError(t, err)

	got, err := w.ReadPage("zhwiki", "Alpha.txt")
	require.NoError(t, err)
	assert.Equal(t, "short", got)
}

func TestWritePageRefusesOverlongFilename(t *testing.T) {
	w := Writer{Root: t.TempDir()}
	require.NoError(t, w.EnsureSourceDirs("zhwiki"))

	// a legal 200-byte title escapes to 400 bytes
	title := strings.Repeat("a/", 100)
	filename := ToFilename(title)
	require.Greater(t, len(filename), maxFilenameBytes)

	_, err := w.WritePage("zhwiki", filename, "deep")
	assert.ErrorIs(t, err, ErrFilenameTooLong)
	assert.NoFileExists(t, filepath.Join(w.Root, "zhwiki", "data", filename))

	_, err = w.WriteMarkdown(LocalMarkdown{Title: title, RelativePath: RelativePath("zhwiki/markdown/" + markdownFilename(filename))})
	assert.ErrorIs(t, err, ErrFilenameTooLong)

	// right at the limit still fits
	longest := ToFilename(strings.Repeat("b", maxFilenameBytes-len(textSuffix)))
	require.Len(t, longest, maxFilenameBytes)
	_, err = w.WritePage("zhwiki", longest, "fits")
	assert.NoError(t, err)
}
