package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/quorum/internal/domain"
	"github.com/spf13/pflag"
)

// Enum flags parse through the domain parsers so "in-progress",
// "IN_PROGRESS" and "in_progress" are all accepted on the command line.

type roleValue struct{ v *domain.Role }

func (r roleValue) String() string {
	if r.v == nil {
		return ""
	}
	return string(*r.v)
}

func (r roleValue) Set(s string) error {
	role, err := domain.ParseRole(s)
	if err != nil {
		return err
	}
	*r.v = role
	return nil
}

func (roleValue) Type() string { return "role" }

type tierValue struct{ v *domain.Tier }

func (t tierValue) String() string {
	if t.v == nil {
		return ""
	}
	return string(*t.v)
}

func (t tierValue) Set(s string) error {
	tier, err := domain.ParseTier(s)
	if err != nil {
		return err
	}
	*t.v = tier
	return nil
}

func (tierValue) Type() string { return "tier" }

type tierStatusValue struct{ v *domain.TierStatus }

func (s tierStatusValue) String() string {
	if s.v == nil {
		return ""
	}
	return string(*s.v)
}

func (s tierStatusValue) Set(in string) error {
	st, err := domain.ParseTierStatus(in)
	if err != nil {
		return err
	}
	*s.v = st
	return nil
}

func (tierStatusValue) Type() string { return "status" }

type priorityValue struct{ v *domain.Priority }

func (p priorityValue) String() string {
	if p.v == nil {
		return ""
	}
	return string(*p.v)
}

func (p priorityValue) Set(s string) error {
	pr, err := domain.ParsePriority(s)
	if err != nil {
		return err
	}
	*p.v = pr
	return nil
}

func (priorityValue) Type() string { return "priority" }

// versionValue is an optional --expected-version. Unset leaves the pointer nil.
type versionValue struct{ v **int }

func (e versionValue) String() string {
	if e.v == nil || *e.v == nil {
		return ""
	}
	return strconv.Itoa(**e.v)
}

func (e versionValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("expected a positive version, got %q", s)
	}
	*e.v = &n
	return nil
}

func (versionValue) Type() string { return "int" }

var (
	_ pflag.Value = roleValue{}
	_ pflag.Value = tierValue{}
	_ pflag.Value = tierStatusValue{}
	_ pflag.Value = priorityValue{}
	_ pflag.Value = versionValue{}
)

func addExpectedVersionFlag(fs *pflag.FlagSet, v **int) {
	fs.Var(versionValue{v}, "expected-version", "Fail with a conflict unless the stored version matches")
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return &d, nil
}
