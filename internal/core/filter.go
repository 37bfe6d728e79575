package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ListCodes returns, in ascending order, the codes matching every filter in f.
//
// Counties and Types select by county number and type code. Name is compared
// with the rendered name: with ExactName it must equal the full name or the
// name without prefix, otherwise it must occur in the full name. A filter
// holding a non-positive number cannot match a record; the call then returns
// an empty slice and notes a diagnostic.
func (h *Handle) ListCodes(f ListFilter) []int {
	if err := f.Validate(); err != nil {
		h.note(Diagnostic{Kind: DiagInvalidFilter, Message: err.Error()})
		return []int{}
	}

	counties := intSet(f.Counties)
	types := intSet(f.Types)

	var name string
	if f.Name != "" {
		name = Normalize(CanonicalName(f.Name), h.mode)
	}

	out := []int{}
	h.reg.Each(func(rec Record) bool {
		if counties != nil {
			if _, ok := counties[rec.County]; !ok {
				return true
			}
		}
		if types != nil {
			if _, ok := types[rec.Type]; !ok {
				return true
			}
		}
		if name != "" && !h.matchName(rec.Name, name, f.ExactName) {
			return true
		}
		out = append(out, rec.Code)
		return true
	})
	return out
}

func (h *Handle) matchName(stored, filter string, exact bool) bool {
	full := Normalize(stored, h.mode)
	if !exact {
		return strings.Contains(full, filter)
	}
	return full == filter || h.render(stored, false, namePrefixes) == filter
}

// Validate reports filters that cannot be applied.
func (f ListFilter) Validate() error {
	for _, c := range f.Counties {
		if c <= 0 {
			return fmt.Errorf("%w: county %d", ErrInvalidFilter, c)
		}
	}
	for _, t := range f.Types {
		if t <= 0 {
			return fmt.Errorf("%w: type %d", ErrInvalidFilter, t)
		}
	}
	return nil
}

// ParseCodeList parses a comma-separated list of positive integers such as
// "1,3,5". Empty input returns nil, meaning no filter.
func ParseCodeList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: %q is not a positive integer", ErrInvalidFilter, p)
		}
		out = append(out, v)
	}
	return out, nil
}

func intSet(values []int) map[int]struct{} {
	if values == nil {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
