package iam

import (
	"fmt"
	"strings"
	"time"
)

// TargetKind is the kind of IAM entity a policy is applied to.
type TargetKind string

const (
	KindGroup   TargetKind = "group"
	KindRole    TargetKind = "role"
	KindUser    TargetKind = "user"
	KindManaged TargetKind = "managed"
)

// Kinds lists the accepted --type values in help order.
var Kinds = []TargetKind{KindGroup, KindManaged, KindRole, KindUser}

// ParseTargetKind maps a flag value onto a TargetKind. The empty string
// parses to the empty kind so callers can tell "not given" from "invalid".
func ParseTargetKind(s string) (TargetKind, error) {
	if s == "" {
		return "", nil
	}
	k := TargetKind(strings.ToLower(s))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// IsIdentity reports whether the kind names a group, role or user.
func (k TargetKind) IsIdentity() bool {
	return k == KindGroup || k == KindRole || k == KindUser
}

func (k TargetKind) String() string { return string(k) }

type ManagedPolicy struct {
	Name             string
	PolicyID         string
	ARN              string
	Path             string
	DefaultVersionID string
	CreatedAt        time.Time
}
