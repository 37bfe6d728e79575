package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/siruta/internal/core"
)

// EntityResponse is the JSON view of one entity.
type EntityResponse struct {
	Code          int    `json:"code"`
	Name          string `json:"name"`
	PostalCode    int    `json:"postal_code,omitempty"`
	Parent        *int   `json:"parent,omitempty"`
	ParentName    string `json:"parent_name,omitempty"`
	Type          int    `json:"type"`
	TypeName      string `json:"type_name,omitempty"`
	County        int    `json:"county"`
	CountyName    string `json:"county_name,omitempty"`
	Region        int    `json:"region,omitempty"`
	RegionName    string `json:"region_name,omitempty"`
	Level         string `json:"level,omitempty"`
	Urban         bool   `json:"urban"`
	ValidChecksum bool   `json:"valid_checksum"`
}

// ChildrenResponse lists the direct subordinates of an entity.
type ChildrenResponse struct {
	Code     int   `json:"code"`
	Children []int `json:"children"`
	Count    int   `json:"count"`
}

// ListResponse is the result of a list query. Diagnostic is set when the
// filter could not be applied.
type ListResponse struct {
	Codes      []int  `json:"codes"`
	Count      int    `json:"count"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// ValidateResponse reports the checksum and presence of a code.
type ValidateResponse struct {
	Code          string `json:"code"`
	ValidChecksum bool   `json:"valid_checksum"`
	Present       bool   `json:"present"`
}

// CountyResponse is one county index entry.
type CountyResponse struct {
	Number int    `json:"number"`
	Code   int    `json:"code"`
	Name   string `json:"name"`
}

// queryHandle returns a handle over the active registry in the diacritic
// mode of the request, falling back to the configured default.
func (s *Server) queryHandle(r *http.Request) (*core.Handle, error) {
	mode := s.diacritics
	if v := r.URL.Query().Get("diacritics"); v != "" {
		parsed, err := core.ParseDiacriticConfig(v)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}
	return s.store.Handle(core.WithDiacritics(mode))
}

// withPrefix reads the prefix query parameter; names keep their
// administrative prefix unless it is false.
func withPrefix(r *http.Request) bool {
	return boolParam(r, "prefix", true)
}

// boolParam parses a boolean query parameter with a default value.
func boolParam(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// codeParam parses the {code} URL parameter. A non-numeric code cannot be
// in the database.
func codeParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "code")
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("code %q: %w", raw, core.ErrNotFound)
	}
	return code, nil
}

// notFound turns the last diagnostic of h into an error.
func notFound(h *core.Handle) error {
	return fmt.Errorf("%s: %w", h.LastError(), core.ErrNotFound)
}

func (s *Server) observeLookup(found bool) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(found)
	}
}

// entityRequest resolves the handle and code of an entity route.
func (s *Server) entityRequest(w http.ResponseWriter, r *http.Request) (*core.Handle, int, bool) {
	h, err := s.queryHandle(r)
	if err != nil {
		s.respondError(w, r, err)
		return nil, 0, false
	}
	code, err := codeParam(r)
	if err != nil {
		s.observeLookup(false)
		s.respondError(w, r, err)
		return nil, 0, false
	}
	return h, code, true
}

// buildEntity assembles the entity view of code.
func buildEntity(h *core.Handle, code int, prefix bool) (EntityResponse, bool) {
	rec, ok := h.Record(code)
	if !ok {
		return EntityResponse{}, false
	}
	name, _ := h.Name(code, prefix)

	resp := EntityResponse{
		Code:          rec.Code,
		Name:          name,
		PostalCode:    rec.PostalCode,
		Type:          rec.Type,
		County:        rec.County,
		Region:        rec.Region,
		Level:         rec.Level,
		Urban:         rec.Urban,
		ValidChecksum: core.IsValidCode(rec.Code),
	}
	if rec.Parent != core.NoParent {
		parent := rec.Parent
		resp.Parent = &parent
		resp.ParentName, _ = h.ParentName(code, prefix)
	}
	resp.TypeName, _ = h.TypeString(code)
	resp.CountyName, _ = h.CountyString(code, prefix)
	resp.RegionName, _ = h.RegionString(code)
	return resp, true
}

// handleEntity returns one entity by SIRUTA code.
func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	h, code, ok := s.entityRequest(w, r)
	if !ok {
		return
	}

	resp, found := buildEntity(h, code, withPrefix(r))
	s.observeLookup(found)
	if !found {
		s.respondError(w, r, notFound(h))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleParent returns the superior entity of a code.
func (s *Server) handleParent(w http.ResponseWriter, r *http.Request) {
	h, code, ok := s.entityRequest(w, r)
	if !ok {
		return
	}

	parent, found := h.ParentCode(code)
	if found {
		var resp EntityResponse
		if resp, found = buildEntity(h, parent, withPrefix(r)); found {
			s.observeLookup(true)
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	s.observeLookup(false)
	s.respondError(w, r, notFound(h))
}

// handleChildren returns the direct subordinates of a code, ascending.
func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	h, code, ok := s.entityRequest(w, r)
	if !ok {
		return
	}

	children, found := h.ChildrenCodes(code)
	s.observeLookup(found)
	if !found {
		s.respondError(w, r, notFound(h))
		return
	}
	writeJSON(w, http.StatusOK, ChildrenResponse{Code: code, Children: children, Count: len(children)})
}

// handleListEntities lists codes matching county, type and name filters.
// A filter that cannot be parsed yields an empty list and a diagnostic,
// mirroring ListCodes.
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	h, err := s.queryHandle(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := core.ListFilter{
		Name:      q.Get("name"),
		ExactName: boolParam(r, "exact", false),
	}

	var parseErr error
	if filter.Counties, err = core.ParseCodeList(q.Get("county")); err != nil {
		parseErr = fmt.Errorf("county: %w", err)
	}
	if filter.Types, err = core.ParseCodeList(q.Get("type")); err != nil && parseErr == nil {
		parseErr = fmt.Errorf("type: %w", err)
	}
	if parseErr != nil {
		writeJSON(w, http.StatusOK, ListResponse{Codes: []int{}, Diagnostic: parseErr.Error()})
		return
	}

	codes := h.ListCodes(filter)
	if codes == nil {
		codes = []int{}
	}
	resp := ListResponse{Codes: codes, Count: len(codes)}
	if d := h.LastDiagnostic(); d.Kind == core.DiagInvalidFilter {
		resp.Diagnostic = d.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCounties returns the county index in collation order.
func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	h, err := s.queryHandle(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, countyEntries(h, withPrefix(r)))
}

// countyEntries renders the county index, without county prefixes unless
// prefix is set.
func countyEntries(h *core.Handle, prefix bool) []CountyResponse {
	counties := h.Counties()
	out := make([]CountyResponse, 0, len(counties))
	for _, c := range counties {
		name := c.Name
		if !prefix {
			name, _ = h.CountyString(c.Code, false)
		}
		out = append(out, CountyResponse{Number: c.Number, Code: c.Code, Name: name})
	}
	return out
}

// handleValidate reports whether a code passes the checksum and whether it
// is present in the active registry. It answers even before the first load.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "code"))
	resp := ValidateResponse{
		Code:          raw,
		ValidChecksum: core.IsValidCodeString(raw),
	}
	if code, err := strconv.Atoi(raw); err == nil {
		if reg := s.store.Current(); reg != nil {
			resp.Present = reg.Contains(code)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLookup is the name-to-code direction, which the registry does not
// support.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	_, err := core.NewHandle(s.store.Current()).CodeByName(r.URL.Query().Get("name"))
	s.respondError(w, r, err)
}
