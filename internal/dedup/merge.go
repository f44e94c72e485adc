package dedup

import (
	"strings"
	"time"

	"github.com/naperu/heraldo/internal/domain"
)

// Strategy selects how two lead records are folded into one survivor.
type Strategy string

const (
	// StrategyKeepExisting keeps the target record untouched.
	StrategyKeepExisting Strategy = "keep_existing"
	// StrategyKeepNew keeps the source record untouched; the target folds away.
	StrategyKeepNew Strategy = "keep_new"
	// StrategyMergeFields combines both records field by field.
	StrategyMergeFields Strategy = "merge_fields"
)

// ParseStrategy validates a client-supplied strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyKeepExisting, StrategyKeepNew, StrategyMergeFields:
		return Strategy(s), nil
	}
	return "", &domain.ValidationError{Field: "strategy", Message: "must be one of keep_existing, keep_new, merge_fields"}
}

// Plan computes the survivor state of merging source into target. It is pure:
// same inputs always produce the same result, and neither input is mutated.
// keep_existing and merge_fields keep the target's identity (id, account,
// created_at); keep_new keeps the source's. The loser is whichever record the
// survivor's id does not name.
func Plan(strategy Strategy, source, target *domain.Lead, now time.Time) (*domain.Lead, error) {
	var result *domain.Lead

	switch strategy {
	case StrategyKeepExisting:
		// Target wins wholesale.
		result = cloneLead(target)

	case StrategyKeepNew:
		// Source wins wholesale: the newer record is authoritative and the
		// incumbent is the one folded away.
		result = cloneLead(source)

	case StrategyMergeFields:
		result = cloneLead(target)
		// Longer name wins, target on ties.
		if strLen(source.Name) > strLen(target.Name) {
			result.Name = copyStr(source.Name)
		}
		result.Email = preferSource(source.Email, target.Email)
		result.Phone = preferSource(source.Phone, target.Phone)
		result.Interest = preferSource(source.Interest, target.Interest)
		result.CompanyName = preferSource(source.CompanyName, target.CompanyName)
		result.CompanyTaxID = preferSource(source.CompanyTaxID, target.CompanyTaxID)
		result.CompanyEmail = preferSource(source.CompanyEmail, target.CompanyEmail)
		// Visitor tracking sticks with the older record.
		result.VisitorID = preferTarget(source.VisitorID, target.VisitorID)
		result.Tags = unionTags(target.Tags, source.Tags)
		result.CustomFields = mergeFields(target.CustomFields, source.CustomFields)

	default:
		return nil, &domain.ValidationError{Field: "strategy", Message: "must be one of keep_existing, keep_new, merge_fields"}
	}

	result.DuplicateStatus = ""
	result.DeletedAt = nil
	return result, nil
}

func cloneLead(l *domain.Lead) *domain.Lead {
	c := *l
	c.Name = copyStr(l.Name)
	c.Phone = copyStr(l.Phone)
	c.Email = copyStr(l.Email)
	c.Status = copyStr(l.Status)
	c.Origin = copyStr(l.Origin)
	c.Interest = copyStr(l.Interest)
	c.VisitorID = copyStr(l.VisitorID)
	c.CompanyName = copyStr(l.CompanyName)
	c.CompanyTaxID = copyStr(l.CompanyTaxID)
	c.CompanyEmail = copyStr(l.CompanyEmail)
	c.Notes = copyStr(l.Notes)
	c.Tags = append([]string(nil), l.Tags...)
	c.CustomFields = cloneFields(l.CustomFields)
	return &c
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func strLen(p *string) int {
	if p == nil {
		return 0
	}
	return len(strings.TrimSpace(*p))
}

func isEmpty(p *string) bool {
	return strLen(p) == 0
}

// preferSource returns the source value unless it is empty.
func preferSource(source, target *string) *string {
	if !isEmpty(source) {
		return copyStr(source)
	}
	return copyStr(target)
}

// preferTarget returns the target value unless it is empty.
func preferTarget(source, target *string) *string {
	if !isEmpty(target) {
		return copyStr(target)
	}
	return copyStr(source)
}

// unionTags keeps target order, appends source tags not already present.
func unionTags(target, source []string) []string {
	if len(target) == 0 && len(source) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(target))
	out := make([]string, 0, len(target)+len(source))
	for _, t := range target {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range source {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// mergeFields keeps the target map as base and fills keys only the source has.
func mergeFields(target, source map[string]interface{}) map[string]interface{} {
	if target == nil && source == nil {
		return nil
	}
	out := make(map[string]interface{}, len(target)+len(source))
	for k, v := range target {
		out[k] = v
	}
	for k, v := range source {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

func cloneFields(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
