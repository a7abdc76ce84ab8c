package models

import (
	"fmt"
	"strings"
)

// OtherCategoryKey is the designated fallback category. Classifier results
// that do not validate against the taxonomy land here.
const OtherCategoryKey = "other"

// TaxonomyNode is one category in the abuse taxonomy. Subtypes are ordered
// and keys are unique within a sibling set. The tree is configuration: it is
// built once at startup and never mutated afterwards.
type TaxonomyNode struct {
	Key         string         `json:"key" bson:"key"`
	Label       string         `json:"label" bson:"label"`
	Description string         `json:"description" bson:"description"`
	Subtypes    []TaxonomyNode `json:"subtypes,omitempty" bson:"subtypes,omitempty"`
}

// HasSubtypes reports whether the node branches further.
func (n TaxonomyNode) HasSubtypes() bool {
	return len(n.Subtypes) > 0
}

// Subtype returns the child node with the given key.
func (n TaxonomyNode) Subtype(key string) (TaxonomyNode, bool) {
	for _, sub := range n.Subtypes {
		if sub.Key == key {
			return sub, true
		}
	}
	return TaxonomyNode{}, false
}

// NormalizeSubtypeKey matches raw against the node's subtypes ignoring case
// and returns the canonical key.
func (n TaxonomyNode) NormalizeSubtypeKey(raw string) (string, bool) {
	for _, sub := range n.Subtypes {
		if strings.EqualFold(sub.Key, raw) {
			return sub.Key, true
		}
	}
	return "", false
}

// Taxonomy is the full category tree consumed by the report flows.
type Taxonomy struct {
	Categories []TaxonomyNode `json:"categories" bson:"categories"`
}

// Category returns the top-level node with the given key.
func (t Taxonomy) Category(key string) (TaxonomyNode, bool) {
	for _, c := range t.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return TaxonomyNode{}, false
}

// NormalizeCategoryKey matches raw against the top-level keys ignoring case
// and returns the canonical key.
func (t Taxonomy) NormalizeCategoryKey(raw string) (string, bool) {
	for _, c := range t.Categories {
		if strings.EqualFold(c.Key, raw) {
			return c.Key, true
		}
	}
	return "", false
}

// Resolve walks a root-to-leaf prefix and returns the node the path ends on.
func (t Taxonomy) Resolve(path []string) (TaxonomyNode, bool) {
	if len(path) == 0 {
		return TaxonomyNode{}, false
	}
	node, ok := t.Category(path[0])
	if !ok {
		return TaxonomyNode{}, false
	}
	for _, key := range path[1:] {
		node, ok = node.Subtype(key)
		if !ok {
			return TaxonomyNode{}, false
		}
	}
	return node, true
}

// Validate checks the taxonomy is usable: every node carries a key and a
// label, keys are unique within their sibling set, and the fallback category
// exists at the top level. A failure here is a deployment error and is fatal
// at startup, never at runtime.
func (t Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	if _, ok := t.Category(OtherCategoryKey); !ok {
		return fmt.Errorf("taxonomy is missing the %q fallback category", OtherCategoryKey)
	}
	return validateSiblings("", t.Categories)
}

func validateSiblings(parent string, nodes []TaxonomyNode) error {
	seen := map[string]bool{}
	for _, n := range nodes {
		if n.Key == "" {
			return fmt.Errorf("taxonomy node under %q has an empty key", parent)
		}
		if n.Label == "" {
			return fmt.Errorf("taxonomy node %q has an empty label", n.Key)
		}
		if seen[n.Key] {
			return fmt.Errorf("duplicate taxonomy key %q under %q", n.Key, parent)
		}
		seen[n.Key] = true
		if err := validateSiblings(n.Key, n.Subtypes); err != nil {
			return err
		}
	}
	return nil
}

// DefaultTaxonomy returns the abuse taxonomy shipped with the service.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{Categories: []TaxonomyNode{
		{
			Key:         "fraud",
			Label:       "Fraud",
			Description: "Scams and deceptive content",
			Subtypes: []TaxonomyNode{
				{Key: "phishing", Label: "Phishing", Description: "Attempts to steal personal information"},
				{Key: "investment_scam", Label: "Investment Scam", Description: "Fraudulent investment opportunities"},
				{Key: "ecommerce", Label: "E-Commerce Scam", Description: "Fake stores or counterfeit items"},
				{Key: "account_takeover", Label: "Account Takeover", Description: "Unauthorized account access"},
				{Key: "other", Label: "Other", Description: "Other fraud type"},
			},
		},
		{
			Key:         "harassment",
			Label:       "Harassment",
			Description: "Bullying or targeted abuse",
			Subtypes: []TaxonomyNode{
				{Key: "bullying", Label: "Bullying", Description: "Persistent harmful behavior targeting an individual"},
				{Key: "sexual_harassment", Label: "Sexual Harassment", Description: "Unwanted sexual comments or advances"},
				{Key: "threats", Label: "Threats", Description: "Threats of harm or intimidation"},
				{Key: "doxxing", Label: "Doxxing", Description: "Sharing private or personal information without consent"},
				{Key: "other", Label: "Other", Description: "Other harassment type"},
			},
		},
		{
			Key:         "hate_speech",
			Label:       "Hate Speech",
			Description: "Discriminatory or hateful content",
			Subtypes: []TaxonomyNode{
				{Key: "racial", Label: "Racial/Ethnic", Description: "Hate based on race or ethnicity"},
				{Key: "gender", Label: "Gender-Based", Description: "Hate based on gender or gender identity"},
				{Key: "religion", Label: "Religious", Description: "Hate based on religious beliefs"},
				{Key: "orientation", Label: "Sexual Orientation", Description: "Hate based on sexual orientation"},
				{Key: "disability", Label: "Ability", Description: "Hate based on disability"},
				{Key: "other", Label: "Other", Description: "Other hate speech type"},
			},
		},
		{
			Key:         "spam",
			Label:       "Spam",
			Description: "Unwanted promotional or repetitive content",
		},
		{
			Key:         "misinformation",
			Label:       "Misinformation",
			Description: "Intentionally false or misleading information",
		},
		{
			Key:         "illegal_content",
			Label:       "Illegal Content",
			Description: "Content that violates laws or platform terms",
			Subtypes: []TaxonomyNode{
				{Key: "piracy", Label: "Piracy", Description: "Unauthorized sharing of copyrighted material"},
				{Key: "csam", Label: "CSAM", Description: "Child Sexual Abuse Material"},
				{Key: "drugs", Label: "Illegal Substances", Description: "Content selling or promoting illegal substances"},
				{Key: "weapons", Label: "Weapons/Violence", Description: "Content selling illegal weapons or promoting violence"},
				{Key: "other", Label: "Other", Description: "Other illegal content type"},
			},
		},
		{
			Key:         OtherCategoryKey,
			Label:       "Other",
			Description: "Other reportable content",
		},
	}}
}
