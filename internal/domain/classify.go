package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// StatusCategory is the closed set of derived closure statuses.
type StatusCategory string

const (
	StatusClosed         StatusCategory = "closed"
	StatusDelay          StatusCategory = "delay"
	StatusEarlyDismissal StatusCategory = "early_dismissal"
	StatusInformational  StatusCategory = "informational"
)

// Scheme selects one of the two classification policies. The feed is
// ambiguous about rows with no actionable keyword, and the two observed
// behaviors disagree on the default, so the choice is an explicit parameter.
type Scheme int

const (
	// SchemeLenient is the two-tier policy: loose early-dismissal rule and
	// every unrecognized row defaults to closed.
	SchemeLenient Scheme = iota

	// SchemeStrict is the four-tier policy: early dismissal requires the
	// exact phrase, closed requires an explicit keyword, and everything
	// else is informational.
	SchemeStrict
)

// ParseScheme converts a config value ("lenient" or "strict") to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lenient":
		return SchemeLenient, nil
	case "strict":
		return SchemeStrict, nil
	default:
		return SchemeLenient, fmt.Errorf("unknown status scheme %q", s)
	}
}

func (s Scheme) String() string {
	if s == SchemeStrict {
		return "strict"
	}
	return "lenient"
}

// Keyword rules operate on lowercased text. A hyphen counts as part of the
// word so that hyphenated negations ("non-delay day") do not trigger the
// rule; regexp's \b would split at the hyphen and match.
const wb = `[^a-z0-9-]`

var (
	delayRe       = regexp.MustCompile(`(?:^|` + wb + `)(?:delay(?:ed|s)?(?:$|` + wb + `)|late\s+(?:start|open))`)
	earlyLooseRe  = regexp.MustCompile(`(?:^|` + wb + `)(?:early(?:$|` + wb + `)|dismiss)`)
	earlyStrictRe = regexp.MustCompile(`(?:^|` + wb + `)early\s+dismissal(?:$|` + wb + `)`)
	closedRe      = regexp.MustCompile(`(?:^|` + wb + `)clos(?:ed|ing|ure|ures)(?:$|` + wb + `)`)
)

// Classify maps free text to a status category. Rules apply in precedence
// order — delay, then early dismissal, then closed — and the first hit wins.
// Classification is pure and total: unrecognized text resolves to the
// scheme's default category, never an error.
func Classify(text string, scheme Scheme) StatusCategory {
	t := strings.ToLower(text)

	if delayRe.MatchString(t) {
		return StatusDelay
	}

	earlyRe := earlyLooseRe
	if scheme == SchemeStrict {
		earlyRe = earlyStrictRe
	}
	if earlyRe.MatchString(t) {
		return StatusEarlyDismissal
	}

	if scheme == SchemeLenient {
		return StatusClosed
	}
	if closedRe.MatchString(t) {
		return StatusClosed
	}
	return StatusInformational
}
