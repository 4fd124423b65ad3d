package mediawiki

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfirmEdit's MathCaptcha writes subtraction with U+2212, not an ASCII hyphen.
const captchaMinus = "−"

// Answer solves a ConfirmEdit arithmetic question of the form "a + b" or "a − b".  A question with
// neither operator yields 0: the wiki will refuse that answer and the edit fails normally.
func Answer(question string) (int, error) {
	switch {
	case strings.Contains(question, "+"):
		a, b, err := operands(question, "+")
		if err != nil {
			return 0, err
		}
		return a + b, nil

	case strings.Contains(question, captchaMinus):
		a, b, err := operands(question, captchaMinus)
		if err != nil {
			return 0, err
		}
		return a - b, nil
	}

	return 0, nil
}

func operands(question string, op string) (int, int, error) {
	parts := strings.Split(question, op)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrCaptchaUnsolvable, question)
	}

	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrCaptchaUnsolvable, question, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrCaptchaUnsolvable, question, err)
	}

	return a, b, nil
}
