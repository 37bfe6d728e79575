package core

import "fmt"

// Name returns the display name of code. Without prefix, the administrative
// prefixes JUDEȚUL, MUNICIPIUL, ORAȘ and BUCUREȘTI are removed first.
func (h *Handle) Name(code int, withPrefix bool) (string, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return "", false
	}
	return h.render(rec.Name, withPrefix, namePrefixes), true
}

// ParentCode returns the code of the superior entity as stored, whether or
// not that entity is in the registry.
func (h *Handle) ParentCode(code int) (int, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return 0, false
	}
	return rec.Parent, true
}

// ParentName returns the display name of the superior entity. It reports
// false when either code or its parent is not in the registry.
func (h *Handle) ParentName(code int, withPrefix bool) (string, bool) {
	parent, ok := h.ParentCode(code)
	if !ok {
		return "", false
	}
	return h.Name(parent, withPrefix)
}

// PostalCode returns the postal code of code; 0 means none applies.
func (h *Handle) PostalCode(code int) (int, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return 0, false
	}
	return rec.PostalCode, true
}

// Type returns the entity type code.
func (h *Handle) Type(code int) (int, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return 0, false
	}
	return rec.Type, true
}

// TypeString returns the description of the entity type.
func (h *Handle) TypeString(code int) (string, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return "", false
	}
	name, ok := TypeName(rec.Type)
	if !ok {
		h.note(Diagnostic{
			Kind:    DiagInvalidField,
			Code:    code,
			Message: fmt.Sprintf("SIRUTA code %d has unknown type %d", code, rec.Type),
		})
		return "", false
	}
	return Normalize(name, h.mode), true
}

// County returns the county number of code.
func (h *Handle) County(code int) (int, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return 0, false
	}
	return rec.County, true
}

// CountyString returns the name of the county code belongs to. Without
// prefix only JUDEȚUL and MUNICIPIUL are removed.
func (h *Handle) CountyString(code int, withPrefix bool) (string, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return "", false
	}
	county, ok := h.reg.County(rec.County)
	if !ok {
		h.note(Diagnostic{
			Kind:    DiagUnknownCounty,
			Code:    code,
			Message: fmt.Sprintf("SIRUTA code %d references county %d which has no county entry", code, rec.County),
		})
		return "", false
	}
	return h.render(county.Name, withPrefix, countyPrefixes), true
}

// Region returns the development region code.
func (h *Handle) Region(code int) (int, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return 0, false
	}
	return rec.Region, true
}

// RegionString returns the development region name.
func (h *Handle) RegionString(code int) (string, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return "", false
	}
	name, ok := RegionName(rec.Region)
	if !ok {
		h.note(Diagnostic{
			Kind:    DiagInvalidField,
			Code:    code,
			Message: fmt.Sprintf("SIRUTA code %d has unknown region %d", code, rec.Region),
		})
		return "", false
	}
	return Normalize(name, h.mode), true
}

// Level returns the NIV column of code.
func (h *Handle) Level(code int) (string, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return "", false
	}
	return rec.Level, true
}

// IsUrban reports whether code is an urban entity.
func (h *Handle) IsUrban(code int) (urban, ok bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return false, false
	}
	return rec.Urban, true
}

// Record returns the stored record of code with its name rendered in the
// handle's diacritic mode.
func (h *Handle) Record(code int) (Record, bool) {
	rec, ok := h.lookup(code)
	if !ok {
		return Record{}, false
	}
	rec.Name = Normalize(rec.Name, h.mode)
	return rec, true
}

// ChildrenCodes returns the codes whose superior entity is code, ascending.
// It reports false when code itself is absent; an entity without children
// yields an empty, non-nil slice.
func (h *Handle) ChildrenCodes(code int) ([]int, bool) {
	if _, ok := h.lookup(code); !ok {
		return nil, false
	}
	children := h.reg.childCodes(code)
	out := make([]int, len(children))
	copy(out, children)
	return out, true
}

// CountyNames returns every county name in collation order. Without prefix
// JUDEȚUL and MUNICIPIUL are removed.
func (h *Handle) CountyNames(withPrefix bool) []string {
	counties := h.reg.Counties()
	names := make([]string, len(counties))
	for i, c := range counties {
		names[i] = h.render(c.Name, withPrefix, countyPrefixes)
	}
	h.sortStrings(names)
	return names
}

// Counties returns the county index with names rendered in the handle's
// diacritic mode, in collation order of the prefix-less name.
func (h *Handle) Counties() []County {
	counties := h.reg.Counties()
	byName := make(map[string][]County, len(counties))
	keys := make([]string, 0, len(counties))
	for _, c := range counties {
		key := h.render(c.Name, false, countyPrefixes)
		if _, seen := byName[key]; !seen {
			keys = append(keys, key)
		}
		c.Name = Normalize(c.Name, h.mode)
		byName[key] = append(byName[key], c)
	}
	h.sortStrings(keys)

	out := make([]County, 0, len(counties))
	for _, k := range keys {
		out = append(out, byName[k]...)
	}
	return out
}

// CodeByName is not supported; the registry resolves codes to names only.
func (h *Handle) CodeByName(name string) (int, error) {
	return 0, h.unsupported("CodeByName", name)
}

// ParentCodeByName is not supported.
func (h *Handle) ParentCodeByName(name string) (int, error) {
	return 0, h.unsupported("ParentCodeByName", name)
}

// ParentNameByName is not supported.
func (h *Handle) ParentNameByName(name string) (string, error) {
	return "", h.unsupported("ParentNameByName", name)
}

// PostalCodeByName is not supported.
func (h *Handle) PostalCodeByName(name string) (int, error) {
	return 0, h.unsupported("PostalCodeByName", name)
}

// TypeByName is not supported.
func (h *Handle) TypeByName(name string) (int, error) {
	return 0, h.unsupported("TypeByName", name)
}

// CountyByName is not supported.
func (h *Handle) CountyByName(name string) (int, error) {
	return 0, h.unsupported("CountyByName", name)
}

// RegionByName is not supported.
func (h *Handle) RegionByName(name string) (int, error) {
	return 0, h.unsupported("RegionByName", name)
}

func (h *Handle) unsupported(op, name string) error {
	return fmt.Errorf("%s(%q): %w", op, name, ErrNotSupported)
}
