package backupset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/wiki-backup/mediawiki"
)

type fakeFeed struct {
	changes   []mediawiki.Change
	truncated bool
	err       error

	days []time.Time
}

func (f *fakeFeed) RecentChanges(ctx context.Context, day time.Time) (*mediawiki.RecentChangesResult, error) {
	f.days = append(f.days, day)
	if f.err != nil {
		return nil, f.err
	}
	return &mediawiki.RecentChangesResult{Changes: f.changes, Truncated: f.truncated}, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 2, 6, 30, 0, 0, time.UTC)
}

func changes(titles ...string) []mediawiki.Change {
	out := make([]mediawiki.Change, 0, len(titles))
	for _, title := range titles {
		out = append(out, mediawiki.Change{Type: "edit", Title: title})
	}
	return out
}

func TestTargetDay(t *testing.T) {
	s := Selector{Now: fixedNow, LookbackDays: DefaultLookbackDays}
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), s.TargetDay())

	// 0 is today, for runs late in the day
	s.LookbackDays = 0
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), s.TargetDay())

	s.LookbackDays = 3
	assert.Equal(t, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), s.TargetDay())
}

func TestSelectQueriesTargetDay(t *testing.T) {
	feed := &fakeFeed{changes: changes("Alpha", "Beta")}
	s := Selector{Feed: feed, Now: fixedNow, LookbackDays: 2}

	set, truncated, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, Set{"Alpha": "Alpha.txt", "Beta": "Beta.txt"}, set)

	require.Len(t, feed.days, 1)
	assert.Equal(t, "2024-02-29", feed.days[0].Format(time.DateOnly))
}

func TestSelectPropagatesFeedError(t *testing.T) {
	boom := errors.New("boom")
	s := Selector{Feed: &fakeFeed{err: boom}, Now: fixedNow}

	_, _, err := s.Select(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSelectTodayQueriesToday(t *testing.T) {
	feed := &fakeFeed{changes: changes("Alpha")}
	s := Selector{Feed: feed, Now: fixedNow, LookbackDays: 0}

	_, _, err := s.Select(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.days, 1)
	assert.Equal(t, "2024-03-02", feed.days[0].Format(time.DateOnly))
}

func TestSelectReportsTruncation(t *testing.T) {
	s := Selector{Feed: &fakeFeed{changes: changes("Alpha"), truncated: true}, Now: fixedNow}

	_, truncated, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.True(t, truncated)
}

func TestFoldDeduplicates(t *testing.T) {
	s := Selector{}
	set := s.Fold(changes("Alpha", "Beta", "Alpha", "Alpha", "Beta"))

	assert.Len(t, set, 2)
	assert.Equal(t, []string{"Alpha", "Beta"}, set.Titles())
}

func TestFoldDefaultExclusions(t *testing.T) {
	s := Selector{}
	set := s.Fold(changes(
		"首頁",
		"檔案:Logo.png",
		"使用者:Ann",
		"使用者討論:Ann",
		"特殊:最近更改",
		"討論:Alpha",
		"模板:Mirrorpage",
		"模板:Synchro/doc",
		"模板:Infobox",
		"Alpha",
		"Help:Contents",
	))

	assert.Equal(t, Set{
		"模板:Infobox":   "模板%3AInfobox.txt",
		"Alpha":        "Alpha.txt",
		"Help:Contents": "Help%3AContents.txt",
	}, set)
}

func TestFoldCustomExclusions(t *testing.T) {
	s := Selector{Exclude: []string{"User:", "Talk:"}}
	set := s.Fold(changes("User:Ann", "Talk:Alpha", "Alpha", "使用者:Ann"))

	assert.Equal(t, []string{"Alpha", "使用者:Ann"}, set.Titles())

	s = Selector{Exclude: []string{}}
	set = s.Fold(changes("使用者:Ann"))
	assert.Len(t, set, 1)
}

func TestFoldNeverAdmitsExcludedPrefixes(t *testing.T) {
	prefixes := []string{"使用者", "討論:", "User:"}
	s := Selector{Exclude: prefixes}

	titles := []string{"使用者", "使用者:A", "討論:B", "討論", "User:C", "UserX", "C", "D/E", "F:G"}
	set := s.Fold(changes(append(titles, titles...)...))

	for title := range set {
		for _, prefix := range prefixes {
			assert.NotRegexp(t, "^"+prefix, title)
		}
	}
	assert.ElementsMatch(t, []string{"討論", "UserX", "C", "D/E", "F:G"}, set.Titles())
}
