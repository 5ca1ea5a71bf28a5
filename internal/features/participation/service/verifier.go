package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	"sorteo-platform-backend/internal/features/participation/models"
	"sorteo-platform-backend/internal/social"
)

const defaultCheckTimeout = 10 * time.Second

// Verifier runs a giveaway's requirements against the social capability
// provider for one participant and reduces them to a single decision.
// It holds no state between calls; persistence and idempotency belong
// to the calling service.
type Verifier struct {
	providers social.Providers
	timeout   time.Duration
}

func NewVerifier(providers social.Providers, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Verifier{providers: providers, timeout: timeout}
}

// Verify evaluates every requirement in order. A giveaway without
// requirements auto-approves. The returned error is reserved for fatal
// provider faults; soft negatives and timeouts become failed checks.
func (v *Verifier) Verify(ctx context.Context, giveaway *giveawaymodels.Giveaway, userID string) (*models.VerificationResult, error) {
	if len(giveaway.Requirements) == 0 {
		return &models.VerificationResult{
			Status:  models.VerificationApproved,
			Checked: []models.VerificationCheck{},
		}, nil
	}

	provider, ok := v.providers.For(giveaway.Network)
	if !ok {
		return nil, fmt.Errorf("no social provider configured for network %q", giveaway.Network)
	}

	// comment and mentions requirements resolve through the same
	// provider lookup; fetch it once per participation.
	comments := v.commentFetcher(provider, userID, giveaway)

	checked := make([]models.VerificationCheck, 0, len(giveaway.Requirements))
	approved := true

	for i := range giveaway.Requirements {
		req := &giveaway.Requirements[i]

		rule, err := req.Rule()
		if err != nil {
			return nil, err
		}

		check, err := v.runCheck(ctx, provider, rule, req.Type, userID, giveaway, comments)
		if err != nil {
			return nil, err
		}

		checked = append(checked, check)
		if req.Required && !check.OK {
			approved = false
		}
	}

	status := models.VerificationApproved
	if !approved {
		status = models.VerificationRejected
	}

	return &models.VerificationResult{Status: status, Checked: checked}, nil
}

func (v *Verifier) runCheck(
	ctx context.Context,
	provider social.Provider,
	rule giveawaymodels.Rule,
	reqType giveawaymodels.RequirementType,
	userID string,
	giveaway *giveawaymodels.Giveaway,
	comments func(context.Context) (social.CommentResult, error),
) (models.VerificationCheck, error) {
	check := models.VerificationCheck{Type: reqType}

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	switch r := rule.(type) {
	case giveawaymodels.FollowRule:
		if r.Profile == "" {
			check.Reason = "Missing profileToFollow"
			return check, nil
		}
		ok, err := provider.VerifyFollow(callCtx, userID, r.Profile, giveaway)
		if err != nil {
			return v.degradeOrFail(check, err)
		}
		check.OK = ok
		if !ok {
			check.Reason = "Not following"
		}

	case giveawaymodels.LikeRule:
		ok, err := provider.VerifyLike(callCtx, userID, giveaway.PostURL, giveaway)
		if err != nil {
			return v.degradeOrFail(check, err)
		}
		check.OK = ok
		if !ok {
			check.Reason = "No like"
		}

	case giveawaymodels.CommentRule:
		result, err := comments(callCtx)
		if err != nil {
			return v.degradeOrFail(check, err)
		}
		check.OK = result.Commented
		if !result.Commented {
			check.Reason = "No comment"
		}

	case giveawaymodels.MentionsRule:
		result, err := comments(callCtx)
		if err != nil {
			return v.degradeOrFail(check, err)
		}
		check.OK = result.Commented && result.Mentions >= r.Min
		if !check.OK {
			check.Reason = fmt.Sprintf("Needs %d mentions", r.Min)
		}

	default:
		return check, fmt.Errorf("unhandled requirement rule %T", rule)
	}

	return check, nil
}

// degradeOrFail turns a provider timeout into a failed check; any other
// provider fault aborts the verification attempt.
func (v *Verifier) degradeOrFail(check models.VerificationCheck, err error) (models.VerificationCheck, error) {
	if isTimeout(err) {
		check.OK = false
		check.Reason = "Verification timed out"
		return check, nil
	}
	return check, err
}

// commentFetcher memoizes the provider's comment lookup so comment and
// mentions requirements share a single fetch.
func (v *Verifier) commentFetcher(provider social.Provider, userID string, giveaway *giveawaymodels.Giveaway) func(context.Context) (social.CommentResult, error) {
	var (
		fetched bool
		result  social.CommentResult
		err     error
	)
	return func(ctx context.Context) (social.CommentResult, error) {
		if !fetched {
			result, err = provider.VerifyComment(ctx, userID, giveaway.PostURL, giveaway)
			fetched = true
		}
		return result, err
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
