package social

import (
	"context"
	"sync/atomic"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
)

// MockMode selects the canned behavior of the mock provider.
type MockMode string

const (
	// MockPassAll approves every check; comments carry two mentions.
	MockPassAll MockMode = "pass"
	// MockFailAll rejects every check.
	MockFailAll MockMode = "fail"
	// MockFixed answers from the configured fixed results.
	MockFixed MockMode = "fixed"
)

// MockProvider is the deterministic test double. It never contacts any
// network and counts the calls it receives.
type MockProvider struct {
	Mode MockMode

	// Fixed results, consulted only in MockFixed mode.
	FollowOK bool
	LikeOK   bool
	Comment  CommentResult

	calls atomic.Int64
}

func NewMockProvider(mode MockMode) *MockProvider {
	return &MockProvider{Mode: mode}
}

// Calls returns how many provider queries were made.
func (m *MockProvider) Calls() int64 {
	return m.calls.Load()
}

func (m *MockProvider) VerifyFollow(ctx context.Context, userID, profile string, giveaway *giveawaymodels.Giveaway) (bool, error) {
	m.calls.Add(1)
	switch m.Mode {
	case MockFailAll:
		return false, nil
	case MockFixed:
		return m.FollowOK, nil
	default:
		return true, nil
	}
}

func (m *MockProvider) VerifyLike(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (bool, error) {
	m.calls.Add(1)
	switch m.Mode {
	case MockFailAll:
		return false, nil
	case MockFixed:
		return m.LikeOK, nil
	default:
		return true, nil
	}
}

func (m *MockProvider) VerifyComment(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (CommentResult, error) {
	m.calls.Add(1)
	switch m.Mode {
	case MockFailAll:
		return CommentResult{}, nil
	case MockFixed:
		return m.Comment, nil
	default:
		return CommentResult{Commented: true, Mentions: 2}, nil
	}
}
