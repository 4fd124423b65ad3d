package mediawiki_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/wiki-backup/mediawiki"
)

func TestAnswer(t *testing.T) {
	tests := []struct {
		question string
		want     int
	}{
		{"3+4", 7},
		{"10−3", 7},
		{"5 + 2", 7},
		{"12 − 20", -8},
		// neither operator: the fallback is 0, the wiki rejects it and the edit fails normally.
		{"6*7", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, err := mediawiki.Answer(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerHyphenIsNotMinus(t *testing.T) {
	got, err := mediawiki.Answer("10-3")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestAnswerMalformed(t *testing.T) {
	for _, q := range []string{"a+1", "1+", "1+2+3", "x−y"} {
		_, err := mediawiki.Answer(q)
		assert.True(t, errors.Is(err, mediawiki.ErrCaptchaUnsolvable), "question %q: %v", q, err)
	}
}
