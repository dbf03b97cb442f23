package order

import (
	"fmt"

	"orderentry/internal/pkg/errs"
)

// Action tags what an order does relative to its previous order.
//
//	NEW ──> REVISE ──> REVISE ...
//	  │        │
//	  └────────┴──> DISCONTINUE (terminal, cannot itself be revised or discontinued)
type Action int

const (
	// ActionUnknown catches uninitialized values.
	ActionUnknown Action = iota
	ActionNew
	ActionRevise
	ActionRenew
	ActionDiscontinue
)

var actionNames = map[Action]string{
	ActionNew:         "NEW",
	ActionRevise:      "REVISE",
	ActionRenew:       "RENEW",
	ActionDiscontinue: "DISCONTINUE",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "UNKNOWN"
}

func (a Action) Validate() error {
	if _, ok := actionNames[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// RequiresPreviousOrder reports whether the action only makes sense against an existing order.
func (a Action) RequiresPreviousOrder() bool {
	return a == ActionRevise || a == ActionDiscontinue
}

// ParseAction converts the persisted name back into an Action.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

// Urgency describes when the fulfiller should act on an order.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyRoutine
	UrgencyStat
	UrgencyOnScheduledDate
)

var urgencyNames = map[Urgency]string{
	UrgencyRoutine:         "ROUTINE",
	UrgencyStat:            "STAT",
	UrgencyOnScheduledDate: "ON_SCHEDULED_DATE",
}

func (u Urgency) String() string {
	if s, ok := urgencyNames[u]; ok {
		return s
	}
	return "UNKNOWN"
}

func (u Urgency) Validate() error {
	if _, ok := urgencyNames[u]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%d is not a valid urgency", u))
	}
	return nil
}

func ParseUrgency(s string) (Urgency, error) {
	for u, name := range urgencyNames {
		if name == s {
			return u, nil
		}
	}
	return UrgencyUnknown, errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%q is not a valid urgency", s))
}

// DosingType selects how a drug order's dosing is expressed.
type DosingType int

const (
	DosingTypeUnknown DosingType = iota
	// DosingSimple expects dose, dose units, route and frequency.
	DosingSimple
	// DosingFreeText expects dosing instructions.
	DosingFreeText
)

var dosingTypeNames = map[DosingType]string{
	DosingSimple:   "SIMPLE",
	DosingFreeText: "FREE_TEXT",
}

func (d DosingType) String() string {
	if s, ok := dosingTypeNames[d]; ok {
		return s
	}
	return "UNKNOWN"
}

func (d DosingType) Validate() error {
	if _, ok := dosingTypeNames[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("dosingType", fmt.Errorf("%d is not a valid dosing type", d))
	}
	return nil
}

func ParseDosingType(s string) (DosingType, error) {
	for d, name := range dosingTypeNames {
		if name == s {
			return d, nil
		}
	}
	return DosingTypeUnknown, errs.NewValueIsInvalidErrorWithCause("dosingType", fmt.Errorf("%q is not a valid dosing type", s))
}

// Kind is the discriminant of the order variant. Orders of different kinds are
// never chained to each other.
type Kind int

const (
	KindUnknown Kind = iota
	KindGeneric
	KindDrug
)

var kindNames = map[Kind]string{
	KindGeneric: "GENERIC",
	KindDrug:    "DRUG",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid order kind", s))
}
