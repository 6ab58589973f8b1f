package store

import (
	"context"
	"fmt"
)

// SaveTranscriptAnalysis records a transcript and its derived preference
// summary. Stage 1 writes here unconditionally; there is no correlation id
// gate on this table.
func (s *Store) SaveTranscriptAnalysis(ctx context.Context, transcript, summary string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transcripts (transcript_text, preference_summary, created_at)
		VALUES ($1, $2, now())`,
		transcript, summary,
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}
