package domain

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// DateRange is a span of calendar days. Both ends are inclusive dates; how the
// end is interpreted when comparing two ranges depends on the predicate used.
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

// NewDateRange returns the range [start, end].
func NewDateRange(start, end civil.Date) DateRange {
	return DateRange{Start: start, End: end}
}

// IsComplete reports whether both ends are set.
func (r DateRange) IsComplete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// IsValid reports whether both ends are set and Start is not after End.
func (r DateRange) IsValid() bool {
	return r.IsComplete() && !r.End.Before(r.Start)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}

// Overlaps reports whether a and b share at least one day, treating both ends
// as inclusive. This is the closure boundary rule: a closure ending on the day
// another one starts overlaps it.
func Overlaps(a, b DateRange) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// StaysOverlap reports whether two stays conflict. The end of a stay is the
// departure day, so a stay may begin on the day another one ends.
func StaysOverlap(a, b DateRange) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Contains reports whether inner lies entirely inside outer.
func Contains(outer, inner DateRange) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// CutKind classifies how a reopen range intersects a closure.
type CutKind int

const (
	// CutSplit: the reopen range is strictly inside the closure.
	CutSplit CutKind = iota + 1
	// CutDelete: the closure lies inside the reopen range.
	CutDelete
	// CutKeepHead: the closure starts before the range and ends inside it.
	CutKeepHead
	// CutKeepTail: the closure starts inside the range and ends after it.
	CutKeepTail
)

func (k CutKind) String() string {
	switch k {
	case CutSplit:
		return "split"
	case CutDelete:
		return "delete"
	case CutKeepHead:
		return "keep_head"
	case CutKeepTail:
		return "keep_tail"
	default:
		return fmt.Sprintf("CutKind(%d)", int(k))
	}
}

// Cut is the result of removing a reopen range from a closure period.
// Head and Tail are the surviving parts; they are only meaningful for the
// kinds that keep them.
type Cut struct {
	Kind CutKind
	Head DateRange
	Tail DateRange
}

// CutOut removes reopen from closed. The caller must only pass ranges that
// overlap (see Overlaps).
func CutOut(closed, reopen DateRange) Cut {
	startsBefore := closed.Start.Before(reopen.Start)
	endsAfter := closed.End.After(reopen.End)

	head := DateRange{Start: closed.Start, End: reopen.Start.AddDays(-1)}
	tail := DateRange{Start: reopen.End.AddDays(1), End: closed.End}

	switch {
	case startsBefore && endsAfter:
		return Cut{Kind: CutSplit, Head: head, Tail: tail}
	case !startsBefore && !endsAfter:
		return Cut{Kind: CutDelete}
	case startsBefore:
		return Cut{Kind: CutKeepHead, Head: head}
	default:
		return Cut{Kind: CutKeepTail, Tail: tail}
	}
}
