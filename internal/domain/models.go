package domain

import (
	"strings"
	"time"
)

// Domain contains the core models shared by ingestion, extraction and binding.

// Item is one syndication entry produced by feed ingestion.
type Item struct {
	Title       string
	Link        string
	GUID        string
	Author      string
	PublishedAt time.Time
	// MediaURL is the source-supplied media reference (enclosure or
	// media:content) used for cover resolution.
	MediaURL string
}

// Article is the trimmed, sanitized body of one successfully extracted item.
type Article struct {
	Title  string
	Body   string
	Author string
}

// Outcome records the result of one attempted item. Immutable once appended.
type Outcome struct {
	Title   string
	Link    string
	Success bool
	Reason  string
}

// Aggregate is the single run-scoped record owned by the controller. The
// cover is set at most once per run; each distinct style fragment is
// appended at most once.
type Aggregate struct {
	Articles []Article
	Outcomes []Outcome
	CoverURL string
	Style    string

	styles map[string]struct{}
}

// SetCover records the cover URL unless one was already recorded this run.
func (a *Aggregate) SetCover(url string) {
	if a.CoverURL == "" && strings.TrimSpace(url) != "" {
		a.CoverURL = url
	}
}

// AppendStyle adds a style fragment unless its exact text is already present.
func (a *Aggregate) AppendStyle(css string) {
	if strings.TrimSpace(css) == "" {
		return
	}
	if a.styles == nil {
		a.styles = make(map[string]struct{})
	}
	if _, seen := a.styles[css]; seen {
		return
	}
	a.styles[css] = struct{}{}

	if a.Style != "" {
		a.Style += "\n"
	}
	a.Style += css
}

// Succeeded counts the successful outcomes.
func (a *Aggregate) Succeeded() int {
	n := 0
	for _, o := range a.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed returns the failure outcomes in encounter order.
func (a *Aggregate) Failed() []Outcome {
	var failed []Outcome
	for _, o := range a.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}
