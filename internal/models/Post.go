package models

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmptyPostName  = errors.New("post name must not be empty")
	ErrMissingEndDate = errors.New("post end date must be set")

	daysLeftTag = regexp.MustCompile(`(?i)\{N\}`)
	pluralTag   = regexp.MustCompile(`(?i)\{S\}`)
)

// Post is a timed announcement contributing to the bot status.
type Post struct {
	Name        string `json:"name"`
	DisplayText string `json:"displayText"`
	EndDate     Date   `json:"endDate"`
}

func (p Post) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPostName
	}
	if p.EndDate.IsZero() {
		return ErrMissingEndDate
	}
	return nil
}

// Expired reports whether today is strictly after the end date.
func (p Post) Expired(today Date) bool {
	return p.EndDate.Before(today)
}

// Render substitutes the {N} (days left) and {S} (plural marker) tags.
func (p Post) Render(today Date) string {
	text := p.DisplayText
	daysLeft := today.DaysUntil(p.EndDate)

	if daysLeftTag.MatchString(text) {
		text = daysLeftTag.ReplaceAllLiteralString(text, strconv.Itoa(daysLeft))
	}
	if pluralTag.MatchString(text) {
		s := "s"
		if daysLeft == 1 {
			s = ""
		}
		text = pluralTag.ReplaceAllLiteralString(text, s)
	}
	return text
}

// SortPosts orders posts soonest-ending first, then by name.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].EndDate.Equal(posts[j].EndDate.Time) {
			return posts[i].EndDate.Before(posts[j].EndDate)
		}
		return posts[i].Name < posts[j].Name
	})
}

// ComposeStatus renders posts in order, joins them with delimiter and cuts the
// result to at most maxLen runes. maxLen <= 0 disables the cut.
func ComposeStatus(posts []Post, today Date, delimiter string, maxLen int) string {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	SortPosts(sorted)

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = p.Render(today)
	}
	return Truncate(strings.Join(parts, delimiter), maxLen)
}

func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
