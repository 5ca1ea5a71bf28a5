package models

import (
	"fmt"
)

// RequirementType is the closed set of participation conditions.
type RequirementType string

const (
	RequirementFollow   RequirementType = "follow"
	RequirementLike     RequirementType = "like"
	RequirementComment  RequirementType = "comment"
	RequirementMentions RequirementType = "mentions"
)

// Valid reports whether the type is a known value.
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementFollow, RequirementLike, RequirementComment, RequirementMentions:
		return true
	}
	return false
}

// Requirement is one participation condition attached to a giveaway.
// Position defines display and check order only; each requirement is
// verified independently.
type Requirement struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	GiveawayID      string          `gorm:"index" json:"giveaway_id"`
	Type            RequirementType `json:"type"`
	Required        bool            `json:"required"`
	MentionsCount   *int            `json:"mentions_count,omitempty"`
	ProfileToFollow *string         `json:"profile_to_follow,omitempty"`
	Position        int             `gorm:"column:position" json:"order"`
}

func (Requirement) TableName() string {
	return "requirements"
}

// MinMentions returns the configured mention threshold, defaulting to 1.
func (r *Requirement) MinMentions() int {
	if r.MentionsCount == nil || *r.MentionsCount < 1 {
		return 1
	}
	return *r.MentionsCount
}

// Validate checks the requirement definition itself.
func (r *Requirement) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("invalid requirement type: %s", r.Type)
	}
	if r.Type == RequirementMentions && r.MentionsCount != nil && *r.MentionsCount < 1 {
		return fmt.Errorf("mentions count must be at least 1")
	}
	return nil
}

// Rule is the closed tagged variant a requirement compiles to. Each
// variant carries exactly the fields its check needs.
type Rule interface {
	isRule()
}

type FollowRule struct {
	Profile string
}

type LikeRule struct{}

type CommentRule struct{}

type MentionsRule struct {
	Min int
}

func (FollowRule) isRule()   {}
func (LikeRule) isRule()     {}
func (CommentRule) isRule()  {}
func (MentionsRule) isRule() {}

// Rule compiles the stored requirement into its variant. A follow
// requirement without a configured profile yields a FollowRule with an
// empty Profile; the verifier fails that check locally.
func (r *Requirement) Rule() (Rule, error) {
	switch r.Type {
	case RequirementFollow:
		profile := ""
		if r.ProfileToFollow != nil {
			profile = *r.ProfileToFollow
		}
		return FollowRule{Profile: profile}, nil
	case RequirementLike:
		return LikeRule{}, nil
	case RequirementComment:
		return CommentRule{}, nil
	case RequirementMentions:
		return MentionsRule{Min: r.MinMentions()}, nil
	default:
		return nil, fmt.Errorf("unknown requirement type: %s", r.Type)
	}
}
