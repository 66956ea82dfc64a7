package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/jayant-source/farmconnect/internal/models"
	"github.com/jayant-source/farmconnect/internal/storage"
)

// GetCommunityPosts retrieves the newest posts with their author attached.
func (db *DB) GetCommunityPosts(limit int) ([]*models.CommunityPost, error) {
	query := `
		SELECT p.id, p.user_id, p.title, p.content, p.images, p.likes, p.comments, p.tags, p.created_at,
		       u.name, u.location
		FROM community_posts p
		LEFT JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC
		LIMIT $1
	`
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query community posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.CommunityPost
	for rows.Next() {
		var p models.CommunityPost
		var title sql.NullString
		var images, tags []byte
		var authorName, authorLocation sql.NullString

		err := rows.Scan(
			&p.ID, &p.UserID, &title, &p.Content, &images, &p.Likes, &p.Comments, &tags, &p.CreatedAt,
			&authorName, &authorLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan community post: %w", err)
		}

		if title.Valid {
			p.Title = title.String
		}
		if p.Images, err = unmarshalJSON(images); err != nil {
			return nil, err
		}
		if p.Tags, err = unmarshalJSON(tags); err != nil {
			return nil, err
		}
		if authorName.Valid || authorLocation.Valid {
			p.User = &models.PostAuthor{Name: authorName.String, Location: authorLocation.String}
		}
		posts = append(posts, &p)
	}

	return posts, nil
}

// CreateCommunityPost inserts a new post and fills in the id.
func (db *DB) CreateCommunityPost(post *models.CommunityPost) error {
	query := `
		INSERT INTO community_posts (user_id, title, content, images, likes, comments, tags, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $6)
		RETURNING id
	`
	images, err := marshalJSON(post.Images)
	if err != nil {
		return err
	}
	tags, err := marshalJSON(post.Tags)
	if err != nil {
		return err
	}
	now := time.Now()
	err = db.conn.QueryRow(query,
		post.UserID, nullString(post.Title), post.Content, images, tags, now,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create community post: %w", err)
	}
	post.Likes = 0
	post.Comments = 0
	post.CreatedAt = now
	return nil
}

// LikeCommunityPost increments a post's like counter.
func (db *DB) LikeCommunityPost(id string) error {
	result, err := db.conn.Exec(`UPDATE community_posts SET likes = likes + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to like community post: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("community post %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// GetCommunityStats counts farmers and posts for the dashboard.
func (db *DB) GetCommunityStats() (*models.CommunityStats, error) {
	var farmers, posts int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&farmers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM community_posts`).Scan(&posts); err != nil {
		return nil, fmt.Errorf("failed to count community posts: %w", err)
	}

	return &models.CommunityStats{
		TotalFarmers: strconv.Itoa(farmers),
		ActivePosts:  strconv.Itoa(posts),
		HelpRate:     "95%",
	}, nil
}
