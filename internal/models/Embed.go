package models

import "time"

type Embed struct {
	AuthorName    string
	AuthorIconURL string
	AuthorURL     string
	Color         int
	Timestamp     time.Time
	Description   string
	ImageURL      string
	Footer        string
}
