// Package backupset decides which pages of a wiki need backing up: the titles edited or created on
// one day of the recent-changes feed, minus administrative namespaces.
package backupset

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/toothbrush/wiki-backup/localdump"
	"github.com/toothbrush/wiki-backup/mediawiki"
	"golang.org/x/exp/maps"
)

// DefaultExcludePrefixes are the title prefixes never backed up: the main page, files, user
// pages, special pages, discussion pages, and the mirror/sync templates.
var DefaultExcludePrefixes = []string{
	"首頁",
	"檔案",
	"使用者",
	"特殊",
	"討論:",
	"模板:Mirrorpage",
	"模板:Synchro",
}

// DefaultLookbackDays backs up yesterday's changes.
const DefaultLookbackDays = 1

// ChangeFeed is the part of the wiki client the selector needs.
type ChangeFeed interface {
	RecentChanges(ctx context.Context, day time.Time) (*mediawiki.RecentChangesResult, error)
}

// Set maps page title to the filename its snapshot is written to.  Each title appears once.
type Set map[string]string

// Titles returns the titles in sorted order, so fetching and logging are deterministic.
func (s Set) Titles() []string {
	titles := maps.Keys(s)
	slices.Sort(titles)
	return titles
}

type Selector struct {
	Feed ChangeFeed

	// LookbackDays picks the day to back up: today minus this many days, so 0 is today.  Callers
	// pass the resolved setting; DefaultLookbackDays is what the CLI starts from.
	LookbackDays int

	// Exclude lists title prefixes to skip.  nil means DefaultExcludePrefixes; an empty non-nil
	// slice excludes nothing.
	Exclude []string

	// Now defaults to time.Now.
	Now func() time.Time
}

// TargetDay is the calendar day whose changes get backed up.
func (s *Selector) TargetDay() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	today := now()
	return time.Date(today.Year(), today.Month(), today.Day()-s.LookbackDays, 0, 0, 0, 0, today.Location())
}

// Select queries the change feed for TargetDay and folds it into a Set.  truncated reports that the
// feed held more changes than one batch, so some titles may be missing.
func (s *Selector) Select(ctx context.Context) (set Set, truncated bool, err error) {
	result, err := s.Feed.RecentChanges(ctx, s.TargetDay())
	if err != nil {
		return nil, false, fmt.Errorf("backupset: couldn't query recent changes: %w", err)
	}

	return s.Fold(result.Changes), result.Truncated, nil
}

// Fold builds a Set from change records, dropping excluded titles and duplicates.
func (s *Selector) Fold(changes []mediawiki.Change) Set {
	exclude := s.Exclude
	if exclude == nil {
		exclude = DefaultExcludePrefixes
	}

	set := Set{}
	for _, change := range changes {
		if excluded(change.Title, exclude) {
			continue
		}
		if _, ok := set[change.Title]; ok {
			continue
		}
		set[change.Title] = localdump.ToFilename(change.Title)
	}

	return set
}

func excluded(title string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}
