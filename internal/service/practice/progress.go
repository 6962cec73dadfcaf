package practice

import "github.com/heartmarshall/flashdeck-backend/internal/domain"

// Progress projects the session counters. It never mutates the session.
func (s *Session) Progress() domain.Progress {
	return domain.Progress{
		TotalViewed: s.viewed,
		TotalCards:  len(s.cards),
		Remaining:   len(s.cards) - s.position,
		Correct:     s.correct,
		Repeat:      s.repeat,
		Hard:        s.hard,
		Complete:    s.IsComplete(),
	}
}
