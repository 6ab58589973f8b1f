package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SavePost records a generated post under the caller's correlation id and
// returns the new row's id.
func (s *Store) SavePost(ctx context.Context, correlationID, post string) (string, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO generated_posts (id, transcript_id, post_content, created_at)
		VALUES ($1, $2, $3, now())`,
		id, correlationID, post,
	)
	if err != nil {
		return "", fmt.Errorf("insert generated_post: %w", err)
	}
	return id.String(), nil
}
