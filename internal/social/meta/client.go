// Package meta implements the social capability provider against the
// Meta Graph API (Instagram business accounts).
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"sorteo-platform-backend/internal/common/logger"
	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	userrepo "sorteo-platform-backend/internal/features/user/repository"
	"sorteo-platform-backend/internal/social"
)

const (
	graphBase = "https://graph.facebook.com"

	// Paging caps so a busy post cannot drag a verification forever.
	maxMediaPages   = 10
	maxCommentPages = 20
	pageSize        = 50
)

var mentionPattern = regexp.MustCompile(`@[A-Za-z0-9._]+`)

type Client struct {
	http     *http.Client
	version  string
	accounts userrepo.SocialAccountRepository
}

func NewClient(version string, timeout time.Duration, accounts userrepo.SocialAccountRepository) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		version:  version,
		accounts: accounts,
	}
}

// VerifyFollow is not supported by the Graph API for third-party
// profiles; the check resolves to a soft negative.
func (c *Client) VerifyFollow(ctx context.Context, userID, profile string, giveaway *giveawaymodels.Giveaway) (bool, error) {
	return false, nil
}

// VerifyLike resolves to a soft negative: the Graph API does not expose
// the list of users who liked an Instagram media.
func (c *Client) VerifyLike(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (bool, error) {
	return false, nil
}

// VerifyComment checks whether the participant commented on the
// giveaway post and counts @mentions in that comment.
func (c *Client) VerifyComment(ctx context.Context, userID, postURL string, giveaway *giveawaymodels.Giveaway) (social.CommentResult, error) {
	if giveaway.Network != giveawaymodels.NetworkInstagram {
		return social.CommentResult{}, nil
	}

	// The participant must have linked an Instagram account so we can
	// match their provider id against commenters.
	participant, err := c.accounts.FindUserAccount(ctx, userID, giveawaymodels.NetworkInstagram)
	if err != nil {
		if err == userrepo.ErrSocialAccountNotFound {
			return social.CommentResult{}, nil
		}
		return social.CommentResult{}, fmt.Errorf("looking up participant account: %w", err)
	}
	if participant.ProviderUserID == "" {
		return social.CommentResult{}, nil
	}

	token, igBusinessID, err := c.ensureCompanyContext(ctx, giveaway.CompanyID)
	if err != nil {
		return social.CommentResult{}, err
	}

	mediaID, err := c.resolveMediaID(ctx, postURL, igBusinessID, token)
	if err != nil {
		return social.CommentResult{}, err
	}
	if mediaID == "" {
		return social.CommentResult{}, nil
	}

	return c.findComment(ctx, mediaID, participant.ProviderUserID, token)
}

// ensureCompanyContext loads the company's Meta credentials, resolving
// and caching the page and Instagram business ids on first use.
func (c *Client) ensureCompanyContext(ctx context.Context, companyID string) (token, igBusinessID string, err error) {
	account, err := c.accounts.FindCompanyAccount(ctx, companyID, giveawaymodels.NetworkFacebook)
	if err != nil {
		return "", "", fmt.Errorf("company Meta account not found: %w", err)
	}
	if account.AccessToken == "" {
		return "", "", fmt.Errorf("company Meta access token not found")
	}

	if account.InstagramBusinessID != "" {
		return account.AccessToken, account.InstagramBusinessID, nil
	}

	pageID, igID, err := c.findInstagramPage(ctx, account.AccessToken)
	if err != nil {
		return "", "", err
	}
	if igID == "" {
		return "", "", fmt.Errorf("no page with an Instagram business account available")
	}

	account.PageID = pageID
	account.InstagramBusinessID = igID
	if err := c.accounts.Update(ctx, account); err != nil {
		// Resolution succeeded; failing to cache it only costs the next call.
		logger.Warn().Err(err).Str("company_id", companyID).Msg("Failed to cache Meta page ids")
	}

	return account.AccessToken, igID, nil
}

func (c *Client) findInstagramPage(ctx context.Context, token string) (pageID, igID string, err error) {
	endpoint := fmt.Sprintf("%s/%s/me/accounts", graphBase, c.version)
	params := url.Values{
		"access_token": {token},
		"fields":       {"id,name,instagram_business_account"},
	}

	var payload struct {
		Data []struct {
			ID                       string `json:"id"`
			InstagramBusinessAccount *struct {
				ID string `json:"id"`
			} `json:"instagram_business_account"`
		} `json:"data"`
	}
	if err := c.get(ctx, endpoint+"?"+params.Encode(), &payload); err != nil {
		return "", "", fmt.Errorf("fetching Meta pages: %w", err)
	}

	for _, page := range payload.Data {
		if page.InstagramBusinessAccount != nil && page.InstagramBusinessAccount.ID != "" {
			return page.ID, page.InstagramBusinessAccount.ID, nil
		}
	}
	return "", "", nil
}

// resolveMediaID lists recent media of the business account and matches
// by permalink.
func (c *Client) resolveMediaID(ctx context.Context, permalink, igBusinessID, token string) (string, error) {
	params := url.Values{
		"access_token": {token},
		"fields":       {"id,permalink,timestamp"},
		"limit":        {fmt.Sprintf("%d", pageSize)},
	}
	next := fmt.Sprintf("%s/%s/%s/media?%s", graphBase, c.version, igBusinessID, params.Encode())

	for page := 0; page < maxMediaPages && next != ""; page++ {
		var payload struct {
			Data []struct {
				ID        string `json:"id"`
				Permalink string `json:"permalink"`
			} `json:"data"`
			Paging struct {
				Next string `json:"next"`
			} `json:"paging"`
		}
		if err := c.get(ctx, next, &payload); err != nil {
			return "", fmt.Errorf("fetching Instagram media: %w", err)
		}

		for _, media := range payload.Data {
			if normalizeURL(media.Permalink) == normalizeURL(permalink) {
				return media.ID, nil
			}
		}
		next = payload.Paging.Next
	}
	return "", nil
}

// findComment pages the media comments looking for the participant.
func (c *Client) findComment(ctx context.Context, mediaID, providerUserID, token string) (social.CommentResult, error) {
	params := url.Values{
		"access_token": {token},
		"fields":       {"id,text,from"},
		"limit":        {fmt.Sprintf("%d", pageSize)},
	}
	next := fmt.Sprintf("%s/%s/%s/comments?%s", graphBase, c.version, mediaID, params.Encode())

	for page := 0; page < maxCommentPages && next != ""; page++ {
		var payload struct {
			Data []struct {
				Text string `json:"text"`
				From struct {
					ID string `json:"id"`
				} `json:"from"`
			} `json:"data"`
			Paging struct {
				Next string `json:"next"`
			} `json:"paging"`
		}
		if err := c.get(ctx, next, &payload); err != nil {
			return social.CommentResult{}, fmt.Errorf("fetching Instagram comments: %w", err)
		}

		for _, comment := range payload.Data {
			if comment.From.ID == providerUserID {
				return social.CommentResult{
					Commented: true,
					Mentions:  len(mentionPattern.FindAllString(comment.Text, -1)),
				}, nil
			}
		}
		next = payload.Paging.Next
	}
	return social.CommentResult{}, nil
}

func (c *Client) get(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("graph API returned status %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(dest)
}

func normalizeURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}
