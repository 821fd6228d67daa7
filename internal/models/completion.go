package models

import (
	"fmt"
	"time"
)

// ValidationMethod records how a completion was verified
type ValidationMethod string

const (
	ValidationParent ValidationMethod = "parent"
	ValidationPhoto  ValidationMethod = "photo"
	ValidationSelf   ValidationMethod = "self"
)

// ParseValidationMethod converts a string into a ValidationMethod
func ParseValidationMethod(s string) (ValidationMethod, error) {
	m := ValidationMethod(s)
	switch m {
	case ValidationParent, ValidationPhoto, ValidationSelf:
		return m, nil
	}
	return "", fmt.Errorf("unknown validation method: %q", s)
}

// CompletionRecord is an immutable ledger entry recording that a child
// completed a challenge instance. FunCreditsEarned and FamilyID are
// snapshotted at completion time so later catalog or membership changes
// never alter historical payouts.
type CompletionRecord struct {
	ID               string           `json:"id"`
	ChildID          int64            `json:"child_id"`
	InstanceID       string           `json:"challenge_instance_id"`
	TemplateID       int64            `json:"template_id"`
	FamilyID         *int64           `json:"family_id,omitempty"`
	FunCreditsEarned int              `json:"fun_credits_earned"`
	ValidationMethod ValidationMethod `json:"validation_method"`
	CompletedAt      time.Time        `json:"completed_at"`
}
