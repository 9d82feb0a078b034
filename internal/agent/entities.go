package agent

import (
	"strings"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// EntityMatches is the set of snapshot records believed relevant to the
// current query. Every reference points into the current snapshot;
// nothing is fabricated. A zero value means nothing matched.
type EntityMatches struct {
	Email       *core.Email       // single best sender match
	Emails      []core.Email      // collected email list (linkedin/github/urgent)
	Meeting     *core.Meeting     // first meeting in snapshot order
	Meetings    []core.Meeting    // full meeting list
	Assignments []core.Assignment // full assignment list
}

// IsEmpty reports whether no entity matched.
func (m EntityMatches) IsEmpty() bool {
	return m.Email == nil && len(m.Emails) == 0 &&
		m.Meeting == nil && len(m.Meetings) == 0 &&
		len(m.Assignments) == 0
}

// Subject keywords that mark an email as urgent.
var urgentSubjectCues = []string{"urgent", "important", "asap", "action required", "deadline"}

// ExtractEntities scans a query against the snapshot. Rules are
// independently additive; a query can populate several fields at once.
// "First match wins" for the singular email and meeting binds: without
// deep NLP, snapshot position is the only deterministic disambiguator,
// so it is preserved exactly.
func ExtractEntities(query string, snap *core.Snapshot) EntityMatches {
	var matches EntityMatches
	if snap == nil {
		return matches
	}

	q := strings.ToLower(query)

	if containsAny(q, emailCues) {
		matches.Email = matchSender(q, snap.Emails)

		if strings.Contains(q, "linked") {
			matches.Emails = filterEmails(snap.Emails, func(e core.Email) bool {
				return strings.Contains(strings.ToLower(e.Sender), "linkedin")
			})
		}
		if strings.Contains(q, "github") {
			matches.Emails = filterEmails(snap.Emails, func(e core.Email) bool {
				return strings.Contains(strings.ToLower(e.Sender), "github") ||
					strings.Contains(strings.ToLower(e.Subject), "github")
			})
		}
		if containsAny(q, urgencyCues) {
			matches.Emails = filterEmails(snap.Emails, func(e core.Email) bool {
				return containsAny(strings.ToLower(e.Subject), urgentSubjectCues)
			})
		}
	}

	if containsAny(q, meetingCues) && len(snap.Meetings) > 0 {
		matches.Meeting = &snap.Meetings[0]
		matches.Meetings = snap.Meetings
	}

	if containsAny(q, assignmentCues) && len(snap.Assignments) > 0 {
		matches.Assignments = snap.Assignments
	}

	return matches
}

// matchSender finds the first email whose sender matches a query word.
// Query words shorter than three characters are ignored; sender tokens
// are split on whitespace, commas and '@'. A match is either a query
// word appearing literally in the sender string, or a sender token and
// a query word being mutual substrings.
func matchSender(q string, emails []core.Email) *core.Email {
	var words []string
	for _, w := range strings.Fields(q) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil
	}

	for i := range emails {
		sender := strings.ToLower(emails[i].Sender)
		tokens := splitSender(sender)

		for _, w := range words {
			if strings.Contains(sender, w) {
				return &emails[i]
			}
			for _, tok := range tokens {
				if tok == "" {
					continue
				}
				if strings.Contains(tok, w) || strings.Contains(w, tok) {
					return &emails[i]
				}
			}
		}
	}

	return nil
}

func splitSender(sender string) []string {
	return strings.FieldsFunc(sender, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '@'
	})
}

func filterEmails(emails []core.Email, keep func(core.Email) bool) []core.Email {
	var out []core.Email
	for _, e := range emails {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
