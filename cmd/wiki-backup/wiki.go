package main

import (
	"fmt"

	"github.com/toothbrush/wiki-backup/config"
	"github.com/toothbrush/wiki-backup/mediawiki"
)

// newAPI builds a client for one configured wiki.
func newAPI(src config.Source) (*mediawiki.API, error) {
	api, err := mediawiki.NewAPI(src.URL, src.BotName, src.BotPassword)
	if err != nil {
		return nil, fmt.Errorf("wiki-backup: couldn't instantiate API for %s: %w", src.Key, err)
	}
	return api, nil
}

// requireSources fails commands that talk to wikis when none are configured properly.
func requireSources() error {
	if err := ParsedConfig.Validate(); err != nil {
		return err
	}
	if BacklogDay < 0 {
		return fmt.Errorf("wiki-backup: --backlog-day can't be negative, got %d", BacklogDay)
	}
	return nil
}
