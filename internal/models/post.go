package models

import "time"

// RawPost пост из внешнего источника, только читаем.
type RawPost struct {
	ID              string    `json:"id"`
	AuthorHandle    string    `json:"authorHandle"`
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"createdAt"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
}
