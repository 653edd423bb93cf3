package state

import "github.com/swarmkernel/kernel/internal/models"

// ProposeInteraction records a pending interaction awaiting resolution.
func (e *Environment) ProposeInteraction(i models.SoftInteraction) {
	e.pending[i.ID] = i
}

// PendingInteraction returns a copy of a still-unresolved interaction.
func (e *Environment) PendingInteraction(id string) (models.SoftInteraction, bool) {
	i, ok := e.pending[id]
	return i, ok
}

// PendingInteractions returns every interaction still awaiting
// resolution, in map iteration order, which is not stable between
// calls. A caller that needs a fixed order sorts the result; the
// Orchestrator's end-of-step sweep sorts by interaction ID.
func (e *Environment) PendingInteractions() []models.SoftInteraction {
	out := make([]models.SoftInteraction, 0, len(e.pending))
	for _, i := range e.pending {
		out = append(out, i)
	}
	return out
}

// ResolveInteraction is the resolve_interaction transaction: it removes
// the interaction from the pending table and returns it so the caller
// can finish computing its resolved fields and append it to the log.
func (e *Environment) ResolveInteraction(id string) (models.SoftInteraction, error) {
	i, ok := e.pending[id]
	if !ok {
		return models.SoftInteraction{}, &models.TransientActionError{Reason: models.ReasonInteractionNotFound}
	}
	delete(e.pending, id)
	return i, nil
}

// AbandonInteraction drops a pending interaction without resolving it
// (§4.5: unresolved-after-sweep interactions are dropped with
// INTERACTION_ABANDONED).
func (e *Environment) AbandonInteraction(id string) {
	delete(e.pending, id)
}

// AddFeedPost appends a post to the visible feed.
func (e *Environment) AddFeedPost(p models.FeedPost) {
	e.feed = append(e.feed, p)
}

// Feed returns the visible feed in posting order.
func (e *Environment) Feed() []models.FeedPost {
	out := make([]models.FeedPost, len(e.feed))
	copy(out, e.feed)
	return out
}
