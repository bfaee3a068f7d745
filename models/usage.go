package models

import (
	"fmt"
	"strings"
	"time"
)

// FeatureKind names one of the metered AI tools.
type FeatureKind string

const (
	FeatureExplanation FeatureKind = "explanation"
	FeatureFeedback    FeatureKind = "feedback"
	FeatureProject     FeatureKind = "project"
)

// Features is the closed set of metered features.
var Features = []FeatureKind{FeatureExplanation, FeatureFeedback, FeatureProject}

// Valid reports whether f is one of Features.
func (f FeatureKind) Valid() bool {
	switch f {
	case FeatureExplanation, FeatureFeedback, FeatureProject:
		return true
	}
	return false
}

// ParseFeature converts raw into a FeatureKind. Matching is exact; anything
// outside the closed set yields an INVALID_FEATURE error. The result is always
// one of the package constants, never raw itself, so it is safe to retain even
// when raw aliases a reused request buffer.
func ParseFeature(raw string) (FeatureKind, error) {
	switch raw {
	case string(FeatureExplanation):
		return FeatureExplanation, nil
	case string(FeatureFeedback):
		return FeatureFeedback, nil
	case string(FeatureProject):
		return FeatureProject, nil
	}
	return "", NewInvalidFeatureError(raw)
}

// FeatureUsage is one recorded use of a feature. A nil UserID is the shared
// anonymous bucket.
type FeatureUsage struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      *uint       `gorm:"index:idx_feature_usage_principal" json:"userId,omitempty"`
	FeatureType FeatureKind `gorm:"size:32;not null;index:idx_feature_usage_principal" json:"featureType"`
	UsedAt      time.Time   `gorm:"not null" json:"usedAt"`
}

// TableName pins the table name used by the event log.
func (FeatureUsage) TableName() string {
	return "feature_usage"
}

// Principal identifies who a usage is attributed to.
type Principal struct {
	UserID *uint
}

// Anonymous is the principal of requests without a valid token.
func Anonymous() Principal {
	return Principal{}
}

// UserPrincipal returns the principal for an authenticated user.
func UserPrincipal(id uint) Principal {
	return Principal{UserID: &id}
}

// IsAnonymous reports whether p is the anonymous bucket.
func (p Principal) IsAnonymous() bool {
	return p.UserID == nil
}

func (p Principal) String() string {
	if p.UserID == nil {
		return "anonymous"
	}
	return fmt.Sprintf("user:%d", *p.UserID)
}

// FeatureList renders Features for error messages and docs.
func FeatureList() string {
	names := make([]string, len(Features))
	for i, f := range Features {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
