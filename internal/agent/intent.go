// Package agent implements the workspace chat agent.
package agent

import (
	"regexp"
	"strings"
)

// Intent is the single classification tag assigned to a query.
type Intent string

const (
	IntentLastItem       Intent = "last_item"
	IntentSearchBySender Intent = "search_by_sender"
	IntentFollowUp       Intent = "follow_up"
	IntentDetailRequest  Intent = "detail_request"
	IntentListRequest    Intent = "list_request"
	IntentGeneral        Intent = "general"
)

// Cue word lists. Matching is substring-based on the lowercased query;
// no stemming or punctuation stripping.
var (
	lastItemCues   = []string{"last", "latest", "most recent", "newest", "first"}
	senderCues     = []string{"mail from", "email from", "message from"}
	backRefCues    = []string{"that", "it", "this", "them", "those"}
	detailCues     = []string{"detail", "more", "about", "tell me", "info"}
	detailReqCues  = []string{"detail", "more info", "explain", "tell me about", "what about", "show me"}
	listCues       = []string{"show", "list", "what", "any", "do i have", "give me"}
	emailCues      = []string{"email", "mail", "inbox", "message"}
	meetingCues    = []string{"meeting", "schedule", "calendar", "event"}
	assignmentCues = []string{"assignment", "homework", "due", "classroom", "course"}
	urgencyCues    = []string{"urgent", "urgency", "important", "asap"}
)

var fromPattern = regexp.MustCompile(`\bfrom\s+\S`)

// classifyInput is what a classification rule gets to look at.
type classifyInput struct {
	query      string // lowercased
	hasHistory bool
	hasContext bool
}

// intentRule pairs a predicate with the tag it assigns.
type intentRule struct {
	intent Intent
	match  func(in classifyInput) bool
}

// intentRules is the prioritized cascade. Order is a contract: the
// first matching rule wins and later rules are never evaluated.
var intentRules = []intentRule{
	{IntentLastItem, func(in classifyInput) bool {
		return containsAny(in.query, lastItemCues)
	}},
	{IntentSearchBySender, func(in classifyInput) bool {
		return fromPattern.MatchString(in.query) || containsAny(in.query, senderCues)
	}},
	{IntentFollowUp, func(in classifyInput) bool {
		return containsAny(in.query, backRefCues) &&
			containsAny(in.query, detailCues) &&
			(in.hasHistory || in.hasContext)
	}},
	{IntentDetailRequest, func(in classifyInput) bool {
		return containsAny(in.query, detailReqCues)
	}},
	{IntentListRequest, func(in classifyInput) bool {
		return containsAny(in.query, listCues)
	}},
}

// ClassifyIntent maps a raw query to exactly one intent tag.
// hasHistory and hasContext gate the follow_up rule: a backward
// reference with nothing to refer back to is not a follow-up.
func ClassifyIntent(query string, hasHistory, hasContext bool) Intent {
	in := classifyInput{
		query:      strings.ToLower(query),
		hasHistory: hasHistory,
		hasContext: hasContext,
	}

	for _, rule := range intentRules {
		if rule.match(in) {
			return rule.intent
		}
	}
	return IntentGeneral
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
