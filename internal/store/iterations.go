package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SaveIteration records one revision request/result pair against a post.
func (s *Store) SaveIteration(ctx context.Context, postID, userMessage, revisedPost string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO iterations (id, post_id, user_message, revised_post, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), postID, userMessage, revisedPost,
	)
	if err != nil {
		return fmt.Errorf("insert iteration: %w", err)
	}
	return nil
}
