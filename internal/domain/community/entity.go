package community

import "jobnest/internal/domain"

type Post struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Category     string       `json:"category,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	Status       string       `json:"status,omitempty"`
	AuthorID     int64        `json:"authorId,omitempty"`
	AuthorName   string       `json:"authorName,omitempty"`
	LikeCount    int          `json:"likeCount"`
	CommentCount int          `json:"commentCount"`
	CreatedAt    *domain.Time `json:"createdAt,omitempty"`
}

type PostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}
