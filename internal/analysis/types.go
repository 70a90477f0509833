package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// DocType names the kind of document generated from a meeting.
type DocType string

const (
	MeetingSummary    DocType = "meeting_summary"
	KnowledgeTransfer DocType = "knowledge_transfer"
	UserStories       DocType = "user_stories"
)

var (
	ErrUnknownDocType = errors.New("unknown document type")
	ErrBadResponse    = errors.New("model returned an unusable analysis")
)

// ParseDocType accepts the snake_case name or its URL form with dashes.
func ParseDocType(s string) (DocType, error) {
	d := DocType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch d {
	case MeetingSummary, KnowledgeTransfer, UserStories:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocType, s)
}

// Title is the human label used in document headings.
func (d DocType) Title() string {
	switch d {
	case KnowledgeTransfer:
		return "Knowledge Transfer"
	case UserStories:
		return "User Stories"
	default:
		return "Meeting Summary"
	}
}

type ActionItem struct {
	Owner string `json:"owner"`
	Task  string `json:"task"`
	Due   string `json:"due"`
}

type ProcessStep struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Next  []string `json:"next"`
}

type UserStory struct {
	AsA                string   `json:"as_a"`
	IWant              string   `json:"i_want"`
	SoThat             string   `json:"so_that"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
}

// String renders the story in the usual "As a ..., I want ..., so that ..." form.
func (u UserStory) String() string {
	s := fmt.Sprintf("As a %s, I want %s", u.AsA, u.IWant)
	if u.SoThat != "" {
		s += ", so that " + u.SoThat
	}
	return s + "."
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Analysis is the structured reading of a meeting the documents are built from.
type Analysis struct {
	Title            string        `json:"title"`
	ExecutiveSummary string        `json:"executive_summary"`
	KeyPoints        []string      `json:"key_points"`
	Decisions        []string      `json:"decisions"`
	ActionItems      []ActionItem  `json:"action_items"`
	MissingQuestions []string      `json:"missing_questions"`
	ProcessSteps     []ProcessStep `json:"process_steps"`
	UserStories      []UserStory   `json:"user_stories"`
	Sections         []Section     `json:"sections"`
}

func (a *Analysis) empty() bool {
	return a.ExecutiveSummary == "" && len(a.KeyPoints) == 0 && len(a.Sections) == 0 && len(a.UserStories) == 0
}
