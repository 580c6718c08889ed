package entity

import "time"

// PageContent is an owner-editable static page such as "about" or "shipping".
type PageContent struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PageContents maps a page slug to its content.
type PageContents map[string]PageContent
