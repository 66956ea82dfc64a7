package models

import "time"

// PostAuthor is the denormalized author info attached to posts at read time.
type PostAuthor struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// CommunityPost is a post on the farmer community feed.
type CommunityPost struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Title     string      `json:"title,omitempty"`
	Content   string      `json:"content"`
	Images    []string    `json:"images,omitempty"`
	Likes     int         `json:"likes"`
	Comments  int         `json:"comments"`
	Tags      []string    `json:"tags,omitempty"`
	User      *PostAuthor `json:"user,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CommunityStats summarizes feed activity for the dashboard.
type CommunityStats struct {
	TotalFarmers string `json:"totalFarmers"`
	ActivePosts  string `json:"activePosts"`
	HelpRate     string `json:"helpRate"`
}
