// Package social defines the capability boundary to social networks:
// "did user X perform action Y on this post". One Provider per network;
// a deterministic MockProvider substitutes in tests and local runs.
package social

import (
	"context"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
)

// CommentResult is the outcome of a comment lookup. Mentions counts the
// @handle mentions found in the participant's comment.
type CommentResult struct {
	Commented bool `json:"commented"`
	Mentions  int  `json:"mentions"`
}

// Provider answers participation questions against one network's API.
// Soft negatives (user simply did not perform the action, or the
// network cannot expose it) return false with a nil error; a non-nil
// error means the provider itself failed and the whole verification
// attempt must abort.
type Provider interface {
	VerifyFollow(ctx context.Context, userID, profile string, giveaway *giveawaymodels.Giveaway) (bool, error)
	VerifyLike(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (bool, error)
	VerifyComment(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (CommentResult, error)
}

// Providers resolves the provider for a network. Missing entries are a
// configuration fault surfaced by the verifier as a provider error.
type Providers map[giveawaymodels.SocialNetwork]Provider

// For returns the provider registered for the network.
func (p Providers) For(network giveawaymodels.SocialNetwork) (Provider, bool) {
	provider, ok := p[network]
	return provider, ok
}
