package practice

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// SelectOptions controls which cards of a deck go into a session and in what order.
type SelectOptions struct {
	Filter      domain.KnownFilter
	Count       int // <= 0 means no cap
	RandomOrder bool
}

// SelectCards produces the ordered card sequence for one session.
//
// known is a snapshot of the deck's known-card set taken at selection time;
// later changes to the durable set do not affect the returned slice.
// With RandomOrder the filtered cards are shuffled before truncation to Count,
// otherwise deck order is kept. The input slice is never modified.
// A nil rng falls back to the package-level math/rand/v2 source.
func SelectCards(all []domain.Card, known domain.CardIDSet, opts SelectOptions, rng *rand.Rand) []domain.Card {
	selected := lo.Filter(all, func(c domain.Card, _ int) bool {
		switch opts.Filter {
		case domain.KnownFilterKnownOnly:
			return known.Has(c.ID)
		case domain.KnownFilterUnknownOnly:
			return !known.Has(c.ID)
		default:
			return true
		}
	})

	if opts.RandomOrder {
		swap := func(i, j int) { selected[i], selected[j] = selected[j], selected[i] }
		if rng != nil {
			rng.Shuffle(len(selected), swap)
		} else {
			rand.Shuffle(len(selected), swap)
		}
	}

	if opts.Count > 0 && len(selected) > opts.Count {
		selected = selected[:opts.Count]
	}
	return selected
}
