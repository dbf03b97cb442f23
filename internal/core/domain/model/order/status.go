package order

import "time"

// The temporal predicates below are pure and take the reference instant
// explicitly; a zero instant means time.Now(). They can disagree at boundary
// instants, so one decision must evaluate all of them against the same instant.

func instant(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now()
	}
	return at
}

// IsFuture reports whether the order is not voided and starts after at.
func (o *Order) IsFuture(at time.Time) bool {
	at = instant(at)
	return !o.audit.Voided && o.startDate != nil && o.startDate.After(at)
}

// IsDiscontinued reports whether the order is not voided, has started by at
// and has a stop date not after at. An order without a stop date is never
// discontinued, whatever its action.
func (o *Order) IsDiscontinued(at time.Time) bool {
	at = instant(at)
	if o.audit.Voided || o.startDate == nil || o.startDate.After(at) {
		return false
	}
	return o.dateStopped != nil && !o.dateStopped.After(at)
}

// IsCurrent reports whether the order is in effect at at.
//
// Rules, in order:
//   - voided orders are never current
//   - orders starting after at are not current
//   - a discontinued order is current only before its stop date
//   - otherwise the order is current until its auto-expire date, if any
func (o *Order) IsCurrent(at time.Time) bool {
	at = instant(at)
	if o.audit.Voided {
		return false
	}
	if o.startDate != nil && o.startDate.After(at) {
		return false
	}
	if o.IsDiscontinued(at) {
		if o.dateStopped == nil {
			return at.Equal(*o.startDate)
		}
		return at.Before(*o.dateStopped)
	}
	return o.autoExpireDate == nil || at.Before(*o.autoExpireDate)
}

// IsActive reports whether the order is current and is not itself a
// discontinuation order.
func (o *Order) IsActive(at time.Time) bool {
	return o.action != ActionDiscontinue && o.IsCurrent(at)
}

// IsExpired reports whether the order reached its auto-expire date by at
// without having been stopped earlier.
func (o *Order) IsExpired(at time.Time) bool {
	at = instant(at)
	if o.audit.Voided || o.autoExpireDate == nil || o.autoExpireDate.After(at) {
		return false
	}
	return o.dateStopped == nil || o.dateStopped.After(*o.autoExpireDate)
}

// IsStopped reports whether the order carries a stop date not after at. Unlike
// IsDiscontinued it ignores the start date.
func (o *Order) IsStopped(at time.Time) bool {
	at = instant(at)
	return o.dateStopped != nil && !o.dateStopped.After(at)
}

// TerminalReason returns why the order can no longer be revised or
// discontinued at at, or false if it still can.
func (o *Order) TerminalReason(at time.Time) (TerminalReason, bool) {
	at = instant(at)
	switch {
	case o.audit.Voided:
		return TerminalVoided, true
	case o.IsStopped(at):
		return TerminalStopped, true
	case o.autoExpireDate != nil && !o.autoExpireDate.After(at):
		return TerminalExpired, true
	}
	return "", false
}
