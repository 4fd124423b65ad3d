// Package syncer runs one backup: pull the store, copy each wiki's recently changed pages into it,
// commit per wiki, and push if anything was recorded.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/toothbrush/wiki-backup/backupset"
	"github.com/toothbrush/wiki-backup/config"
	"github.com/toothbrush/wiki-backup/localdump"
	"github.com/toothbrush/wiki-backup/mediawiki"
	"github.com/toothbrush/wiki-backup/vcs"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// BotComment starts every backup commit message.
const BotComment = "Wiki-Bot Backup"

const commitTimeLayout = "2006-01-02 15:04"

// Wiki is the part of mediawiki.API a backup uses.
type Wiki interface {
	WithSession(ctx context.Context, fn func(ctx context.Context) error) error
	RecentChanges(ctx context.Context, day time.Time) (*mediawiki.RecentChangesResult, error)
	LatestRevision(ctx context.Context, title string) (*mediawiki.Revision, error)
	RenderedHTML(ctx context.Context, title string) (string, error)
	Endpoint() *url.URL
}

type Syncer struct {
	Sources []config.Source

	// Connect builds a client for a source.  It's called once per source per run.
	Connect func(src config.Source) (Wiki, error)

	Repo   *vcs.Repo
	Writer *localdump.Writer

	// Passed to backupset.Selector
	LookbackDays int
	Exclude      []string

	// Also render each page to Markdown next to its snapshot.
	WriteMarkdown bool

	// Draw a progress bar per source here, if set.
	Progress io.Writer

	Logger *log.Logger

	// Now defaults to time.Now.  Used for the target day and the commit message.
	Now func() time.Time
}

// Run performs one backup of every source.  A failing page or source doesn't stop the run; all
// failures are returned together once the run is over.  Only a pull that can't be run at all
// aborts early.
func (s *Syncer) Run(ctx context.Context) error {
	logger := s.logger()

	logger.Printf("Pull %s", s.Repo.Dir)
	if err := s.Repo.Pull(ctx); err != nil {
		return fmt.Errorf("syncer: %w", err)
	}

	var errs []error
	anyCommitted := false

	for _, src := range s.Sources {
		if err := s.backupSource(ctx, src); err != nil {
			logger.Printf("Backup of %s incomplete: %v", src.DisplayName(), err)
			errs = append(errs, fmt.Errorf("syncer: %s: %w", src.Key, err))
		}

		// commit even after a failure, whatever was written for this source belongs to it.
		committed, err := s.Repo.Commit(ctx, s.commitMessage())
		if err != nil {
			logger.Printf("Commit for %s failed: %v", src.DisplayName(), err)
			errs = append(errs, fmt.Errorf("syncer: %s: %w", src.Key, err))
			continue
		}
		if committed {
			logger.Printf("Committed backup of %s", src.DisplayName())
		} else {
			logger.Printf("Nothing new to commit for %s", src.DisplayName())
		}
		anyCommitted = anyCommitted || committed
	}

	if anyCommitted {
		logger.Printf("Push %s", s.Repo.Dir)
		if err := s.Repo.Push(ctx); err != nil {
			errs = append(errs, fmt.Errorf("syncer: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *Syncer) backupSource(ctx context.Context, src config.Source) error {
	wiki, err := s.Connect(src)
	if err != nil {
		return err
	}

	return wiki.WithSession(ctx, func(ctx context.Context) error {
		return s.backupSession(ctx, src, wiki)
	})
}

func (s *Syncer) backupSession(ctx context.Context, src config.Source, wiki Wiki) error {
	logger := s.logger()

	if err := s.Writer.EnsureSourceDirs(src.Key); err != nil {
		return err
	}

	selector := backupset.Selector{
		Feed:         wiki,
		LookbackDays: s.LookbackDays,
		Exclude:      s.Exclude,
		Now:          s.Now,
	}
	set, truncated, err := selector.Select(ctx)
	if err != nil {
		return err
	}
	if truncated {
		logger.Printf("Warning: %s has more than %d changes on %s, only the first batch is backed up",
			src.DisplayName(), mediawiki.RecentChangesLimit, selector.TargetDay().Format(time.DateOnly))
	}

	titles := set.Titles()
	logger.Printf("%s: %d page(s) changed on %s", src.DisplayName(), len(titles), selector.TargetDay().Format(time.DateOnly))

	bar := s.progressBar(src, len(titles))
	defer bar.finish()

	var errs []error
	for _, title := range titles {
		if err := s.backupPage(ctx, src, wiki, title, set[title]); err != nil {
			logger.Printf("Skipping %s: %v", title, err)
			errs = append(errs, err)
		}
		bar.increment()
	}

	return errors.Join(errs...)
}

func (s *Syncer) backupPage(ctx context.Context, src config.Source, wiki Wiki, title string, filename string) error {
	logger := s.logger()
	logger.Printf("Back up page: %s", title)

	rev, err := wiki.LatestRevision(ctx, title)
	if err != nil {
		return fmt.Errorf("syncer: page %q: %w", title, err)
	}
	if rev == nil {
		// deleted or moved since it showed up in the feed.
		logger.Printf("Page %s no longer exists, skipped", title)
		return nil
	}

	rel, err := s.Writer.WritePage(src.Key, filename, rev.Content)
	if err != nil {
		return err
	}
	if err := s.Repo.Add(ctx, string(rel)); err != nil {
		return err
	}

	if !s.WriteMarkdown {
		return nil
	}

	html, err := wiki.RenderedHTML(ctx, title)
	if err != nil {
		return fmt.Errorf("syncer: rendering %q: %w", title, err)
	}
	markdown, err := localdump.ConvertToMarkdown(wiki.Endpoint(), src.Key, title, *rev, html)
	if err != nil {
		return err
	}
	mdRel, err := s.Writer.WriteMarkdown(markdown)
	if err != nil {
		return err
	}
	return s.Repo.Add(ctx, string(mdRel))
}

func (s *Syncer) commitMessage() string {
	return fmt.Sprintf("%s: %s", BotComment, s.now().Format(commitTimeLayout))
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Syncer) logger() *log.Logger {
	if s.Logger == nil {
		s.Logger = log.New(io.Discard, "", 0)
	}
	return s.Logger
}

// sourceBar wraps an optional mpb bar; the zero value draws nothing.
type sourceBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func (s *Syncer) progressBar(src config.Source, total int) sourceBar {
	if s.Progress == nil || total == 0 {
		return sourceBar{}
	}

	p := mpb.New(mpb.WithOutput(s.Progress), mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name(fmt.Sprintf("%s:", src.DisplayName()),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)

	return sourceBar{p: p, bar: bar}
}

func (b sourceBar) increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b sourceBar) finish() {
	if b.p == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	// wait for our bar to complete and flush
	b.p.Wait()
}
