package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/media"
)

type blockKind int

const (
	blockHeading blockKind = iota
	blockParagraph
	blockBullet
	blockNumbered
	blockImage
	blockCaption
)

// block is one renderer-neutral element. Text may carry **bold** markers.
type block struct {
	kind  blockKind
	level int
	text  string
	path  string
}

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
)

// layout orders the document: header, analysis sections, process map,
// missing questions, screenshots.
func layout(c Content) []block {
	var bs []block
	heading := func(level int, text string) { bs = append(bs, block{kind: blockHeading, level: level, text: text}) }
	para := func(text string) { bs = append(bs, block{kind: blockParagraph, text: text}) }
	bullets := func(items []string) {
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				bs = append(bs, block{kind: blockBullet, text: it})
			}
		}
	}

	meta := []string{c.DocType.Title()}
	if c.Client != "" {
		meta = append(meta, "Client: "+c.Client)
	}
	if !c.Date.IsZero() {
		meta = append(meta, "Date: "+c.Date.Format("2006-01-02"))
	}
	heading(0, c.Title)
	para(strings.Join(meta, " | "))

	a := c.Analysis
	if a == nil {
		return bs
	}

	if a.Title != "" && !strings.EqualFold(a.Title, c.Title) {
		para("**" + a.Title + "**")
	}
	if a.ExecutiveSummary != "" {
		heading(1, "Executive Summary")
		bs = append(bs, markdownBlocks(a.ExecutiveSummary)...)
	}
	if len(a.KeyPoints) > 0 {
		heading(1, "Key Points")
		bullets(a.KeyPoints)
	}
	for _, s := range a.Sections {
		if s.Heading != "" {
			heading(1, s.Heading)
		}
		bs = append(bs, markdownBlocks(s.Body)...)
	}
	if len(a.UserStories) > 0 {
		heading(1, "User Stories")
		for i, u := range a.UserStories {
			heading(2, fmt.Sprintf("Story %d", i+1))
			para(u.String())
			if len(u.AcceptanceCriteria) > 0 {
				para("**Acceptance criteria**")
				bullets(u.AcceptanceCriteria)
			}
		}
	}
	if len(a.Decisions) > 0 {
		heading(1, "Decisions")
		bullets(a.Decisions)
	}
	if len(a.ActionItems) > 0 {
		heading(1, "Action Items")
		for _, it := range a.ActionItems {
			line := it.Task
			var who []string
			if it.Owner != "" {
				who = append(who, "**"+it.Owner+"**")
			}
			if it.Due != "" {
				who = append(who, "due "+it.Due)
			}
			if len(who) > 0 {
				line += " (" + strings.Join(who, ", ") + ")"
			}
			bullets([]string{line})
		}
	}
	if c.ProcessMapPNG != "" {
		heading(1, "Process Map")
		bs = append(bs, block{kind: blockImage, path: c.ProcessMapPNG})
	}
	if c.IncludeMissingQuestions && len(a.MissingQuestions) > 0 {
		heading(1, "Missing Questions")
		bullets(a.MissingQuestions)
	}
	if c.IncludeScreenshots {
		var shots []block
		for _, s := range c.Screenshots {
			if s.Path == "" {
				continue
			}
			shots = append(shots,
				block{kind: blockImage, path: s.Path},
				block{kind: blockCaption, text: fmt.Sprintf("[%s] %s", media.FormatTimestamp(s.Timestamp, false), s.Reason)},
			)
		}
		if len(shots) > 0 {
			heading(1, "Screenshots")
			bs = append(bs, shots...)
		}
	}
	return bs
}

// markdownBlocks splits a markdown body into heading, list and paragraph
// blocks. Headings inside a body are demoted below the section heading.
func markdownBlocks(md string) []block {
	var bs []block
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			level := len(m[1]) + 1
			if level > 3 {
				level = 3
			}
			bs = append(bs, block{kind: blockHeading, level: level, text: m[2]})
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			bs = append(bs, block{kind: blockBullet, text: m[1]})
			continue
		}
		if reNumbered.MatchString(trimmed) {
			bs = append(bs, block{kind: blockNumbered, text: trimmed})
			continue
		}
		bs = append(bs, block{kind: blockParagraph, text: trimmed})
	}
	return bs
}

// run is a piece of text with one weight.
type run struct {
	text string
	bold bool
}

// inlineRuns splits **bold** markers into runs and drops other inline markup.
func inlineRuns(text string) []run {
	var runs []run
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)
	for i, part := range parts {
		if part != "" {
			runs = append(runs, run{text: cleanMarkdownInline(part)})
		}
		if i < len(matches) {
			runs = append(runs, run{text: cleanMarkdownInline(matches[i][1]), bold: true})
		}
	}
	return runs
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

func plainText(text string) string {
	var b strings.Builder
	for _, r := range inlineRuns(text) {
		b.WriteString(r.text)
	}
	return b.String()
}
