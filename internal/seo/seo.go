// Package seo audits page metadata and keeps a history of the results.
package seo

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wichananm65/gift-store-backend/internal/slug"
	"github.com/wichananm65/gift-store-backend/internal/validation"
)

type Snapshot struct {
	ID          string    `json:"id" bson:"_id"`
	Path        string    `json:"path" bson:"path"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Keywords    []string  `json:"keywords" bson:"keywords"`
	Score       int       `json:"score" bson:"score"`
	Issues      []string  `json:"issues" bson:"issues"`
	CheckedAt   time.Time `json:"checkedAt" bson:"checkedAt"`
}

type AuditInput struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

const (
	minTitle       = 30
	maxTitle       = 60
	minDescription = 70
	maxDescription = 160
)

func (in AuditInput) validate() error {
	errs := validation.Errors{}
	if !strings.HasPrefix(in.Path, "/") {
		errs["path"] = "path must start with /"
	}
	return errs.Err()
}

// Audit scores the metadata out of 100 and lists what cost points.
func Audit(in AuditInput) (score int, issues []string) {
	score = 100
	issues = []string{}
	penalize := func(points int, issue string) {
		score -= points
		issues = append(issues, issue)
	}

	title := strings.TrimSpace(in.Title)
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		penalize(30, "missing title")
	case n < minTitle || n > maxTitle:
		penalize(10, fmt.Sprintf("title has %d characters, expected %d-%d", n, minTitle, maxTitle))
	}

	desc := strings.TrimSpace(in.Description)
	switch n := utf8.RuneCountInString(desc); {
	case n == 0:
		penalize(30, "missing description")
	case n < minDescription || n > maxDescription:
		penalize(10, fmt.Sprintf("description has %d characters, expected %d-%d", n, minDescription, maxDescription))
	}

	if len(cleanKeywords(in.Keywords)) == 0 {
		penalize(10, "no keywords")
	}

	for _, seg := range strings.Split(strings.Trim(in.Path, "/"), "/") {
		if seg == "" {
			continue
		}
		if clean := slug.Make(seg, "", time.Time{}); clean != seg {
			penalize(10, fmt.Sprintf("path segment %q is not a clean slug (%q)", seg, clean))
			break
		}
	}

	return max(score, 0), issues
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}
