// Package community is the shared message board every user can read.
package community

import (
	"context"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pathakanu/pillpal/internal/apperr"
	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/store"
)

// AnonymousName is shown for posts without a known author.
const AnonymousName = "Anonymous"

var linkPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// Entry is a stored message together with its display HTML.
type Entry struct {
	model.CommunityMessage
	HTML template.HTML
}

// Service posts to and reads the global feed.
type Service struct {
	feed   store.Feed
	policy *bluemonday.Policy
}

func NewService(feed store.Feed) *Service {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Service{feed: feed, policy: policy}
}

// Post appends the trimmed text under the author's display name. Blank text
// is dropped without error; anything else is stored exactly as typed.
func (s *Service) Post(ctx context.Context, author *model.User, text string) (bool, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return false, nil
	}

	username := AnonymousName
	if author != nil && strings.TrimSpace(author.Name) != "" {
		username = author.Name
	}

	if err := s.feed.Append(ctx, &model.CommunityMessage{Username: username, Message: msg}); err != nil {
		return false, apperr.Internal(err)
	}
	return true, nil
}

// List returns the whole feed in posting order.
func (s *Service) List(ctx context.Context) ([]model.CommunityMessage, error) {
	msgs, err := s.feed.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msgs, nil
}

// Feed is List with every message rendered for display.
func (s *Service) Feed(ctx context.Context) ([]Entry, error) {
	msgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, Entry{CommunityMessage: m, HTML: s.Render(m.Message)})
	}
	return entries, nil
}

// Render escapes text and turns http(s) URLs into links. The result passes
// through the UGC policy, so only anchors with vetted hrefs survive.
func (s *Service) Render(text string) template.HTML {
	var b strings.Builder
	last := 0
	for _, loc := range linkPattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		link := html.EscapeString(text[loc[0]:loc[1]])
		b.WriteString(`<a href="` + link + `">` + link + `</a>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return template.HTML(s.policy.Sanitize(b.String()))
}
