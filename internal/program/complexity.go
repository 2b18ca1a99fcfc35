package program

import "github.com/claude/trainplan/internal/models"

// ComplexityRule bounds exercise complexity for an experience level.
type ComplexityRule struct {
	MaxComplexity int `json:"max_complexity"`
	// MaxTopTierPerSession of 0 disables the top tier entirely.
	MaxTopTierPerSession int  `json:"max_top_tier_per_session"`
	TopTierMustBeFirst   bool `json:"top_tier_must_be_first"`
}

// ComplexityRules maps experience levels to their rule.
type ComplexityRules map[models.ExperienceLevel]ComplexityRule

// DefaultComplexityRules is the production rule table.
var DefaultComplexityRules = ComplexityRules{
	models.NoExperience: {MaxComplexity: 1},
	models.Beginner:     {MaxComplexity: 1},
	models.Intermediate: {MaxComplexity: 2},
	models.Advanced:     {MaxComplexity: 2},
}

// For returns the rule for level, falling back to the NoExperience rule.
func (r ComplexityRules) For(level models.ExperienceLevel) ComplexityRule {
	if rule, ok := r[level]; ok {
		return rule
	}
	return r[models.NoExperience]
}
