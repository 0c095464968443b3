// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeranaias/verifact-tui/internal/model"
)

// =============================================================================
// QUERY PARAMETERS
// =============================================================================

// StatusFilter is either StatusAll or one of the model statuses.
type StatusFilter string

// StatusAll disables status filtering.
const StatusAll StatusFilter = "all"

// FilterFor returns the filter matching exactly s.
func FilterFor(s model.Status) StatusFilter {
	return StatusFilter(s)
}

// ParseStatusFilter accepts "all" or any known status in any case.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == string(StatusAll) {
		return StatusAll, nil
	}
	s, ok := model.ParseStatus(raw)
	if !ok {
		return "", fmt.Errorf("unknown status filter %q (want all, verified, debunked, pending or inconclusive)", raw)
	}
	return FilterFor(s), nil
}

// SortKey selects the sort field.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByStatus SortKey = "status"
)

// ParseSortKey parses "date" or "status".
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByDate, "":
		return SortByDate, nil
	case SortByStatus:
		return SortByStatus, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want date or status)", raw)
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder parses "asc" or "desc".
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case Descending, "":
		return Descending, nil
	case Ascending:
		return Ascending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want asc or desc)", raw)
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

// Query holds the history browser's filter and sort settings.
type Query struct {
	SearchTerm string
	Status     StatusFilter
	SortBy     SortKey
	Order      SortOrder
}

// DefaultQuery shows everything, newest first.
func DefaultQuery() Query {
	return Query{
		Status: StatusAll,
		SortBy: SortByDate,
		Order:  Descending,
	}
}

// =============================================================================
// FILTER AND SORT
// =============================================================================

// Apply returns the records matching q in q's order. The input slice is never
// modified; the result is a fresh slice. Sorting is stable, so records with
// equal keys keep their relative input order.
func Apply(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))

	fold := cases.Fold()
	term := fold.String(q.SearchTerm)

	for _, r := range records {
		if term != "" &&
			!strings.Contains(fold.String(r.ClaimText), term) &&
			!strings.Contains(fold.String(r.Summary), term) {
			continue
		}
		if q.Status != "" && q.Status != StatusAll && StatusFilter(r.Status) != q.Status {
			continue
		}
		out = append(out, r)
	}

	desc := q.Order != Ascending
	switch q.SortBy {
	case SortByStatus:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[j].Status < out[i].Status
			}
			return out[i].Status < out[j].Status
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[j].VerificationDate.Before(out[i].VerificationDate)
			}
			return out[i].VerificationDate.Before(out[j].VerificationDate)
		})
	}

	return out
}

// CountByStatus tallies records per status.
func CountByStatus(records []Record) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.AllStatuses))
	for _, r := range records {
		counts[r.Status.Normalize()]++
	}
	return counts
}
