package core

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
)

func sampleHandle(t *testing.T, opts ...HandleOption) *Handle {
	t.Helper()
	reg, _ := loadSample(t)
	return NewHandle(reg, opts...)
}

func TestHandle_Name(t *testing.T) {
	h := sampleHandle(t)

	tests := []struct {
		name       string
		code       int
		withPrefix bool
		want       string
	}{
		{"county with prefix", 10, true, "JUDEȚUL ALBA"},
		{"county without prefix", 10, false, "ALBA"},
		{"municipality without prefix", 1017, false, "ALBA IULIA"},
		{"town without prefix", 1008, false, "ZLATNA"},
		{"capital without prefix", 403, false, "BUCUREȘTI"},
		{"sector without prefix", 179196, false, "SECTORUL 6"},
		{"plain name", 1044, false, "BĂRĂBANȚ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.Name(tt.code, tt.withPrefix)
			if !ok {
				t.Fatalf("Name(%d) reported absent", tt.code)
			}
			if got != tt.want {
				t.Errorf("Name(%d, %v) = %q, want %q", tt.code, tt.withPrefix, got, tt.want)
			}
		})
	}
}

func TestHandle_Attributes(t *testing.T) {
	h := sampleHandle(t)

	if got, _ := h.ParentCode(10); got != 1 {
		t.Errorf("ParentCode(10) = %d, want 1", got)
	}
	if got, _ := h.PostalCode(1035); got != 510001 {
		t.Errorf("PostalCode(1035) = %d, want 510001", got)
	}
	if got, _ := h.Type(1017); got != 1 {
		t.Errorf("Type(1017) = %d, want 1", got)
	}
	if got, _ := h.TypeString(86453); got != "comună" {
		t.Errorf("TypeString(86453) = %q, want comună", got)
	}
	if got, _ := h.TypeString(179196); got != "Sector al  municipiului București" {
		t.Errorf("TypeString(179196) = %q", got)
	}
	if got, _ := h.County(13178); got != 3 {
		t.Errorf("County(13178) = %d, want 3", got)
	}
	if got, _ := h.CountyString(13178, true); got != "JUDEȚUL ARGEȘ" {
		t.Errorf("CountyString(13178, true) = %q", got)
	}
	if got, _ := h.CountyString(179132, false); got != "BUCUREȘTI" {
		t.Errorf("CountyString(179132, false) = %q, want BUCUREȘTI", got)
	}
	if got, _ := h.Region(179132); got != 8 {
		t.Errorf("Region(179132) = %d, want 8", got)
	}
	if got, _ := h.RegionString(179132); got != "București-Ilfov" {
		t.Errorf("RegionString(179132) = %q, want București-Ilfov", got)
	}
	if got, _ := h.Level(1035); got != "3" {
		t.Errorf("Level(1035) = %q, want 3", got)
	}
	if urban, _ := h.IsUrban(1035); !urban {
		t.Error("IsUrban(1035) = false, want true")
	}
	if urban, _ := h.IsUrban(86453); urban {
		t.Error("IsUrban(86453) = true, want false")
	}
}

func TestHandle_ParentName(t *testing.T) {
	h := sampleHandle(t)

	if got, ok := h.ParentName(1035, false); !ok || got != "ALBA IULIA" {
		t.Errorf("ParentName(1035) = %q, %v, want ALBA IULIA", got, ok)
	}

	// County markers point at the country, which is not a record.
	if _, ok := h.ParentName(10, true); ok {
		t.Error("ParentName(10) should be absent")
	}
	if msg := h.LastError(); msg != "SIRUTA code 1 is not in the database" {
		t.Errorf("LastError = %q", msg)
	}

	if _, ok := h.ParentName(1240, true); ok {
		t.Error("ParentName of a dangling parent should be absent")
	}
}

func TestHandle_Absent(t *testing.T) {
	h := sampleHandle(t)

	if d := h.LastDiagnostic(); d.Kind != "" {
		t.Errorf("fresh handle has diagnostic %v", d)
	}

	checks := map[string]func() bool{
		"Name":          func() bool { _, ok := h.Name(999999, true); return ok },
		"ParentCode":    func() bool { _, ok := h.ParentCode(999999); return ok },
		"PostalCode":    func() bool { _, ok := h.PostalCode(999999); return ok },
		"Type":          func() bool { _, ok := h.Type(999999); return ok },
		"TypeString":    func() bool { _, ok := h.TypeString(999999); return ok },
		"County":        func() bool { _, ok := h.County(999999); return ok },
		"CountyString":  func() bool { _, ok := h.CountyString(999999, true); return ok },
		"Region":        func() bool { _, ok := h.Region(999999); return ok },
		"RegionString":  func() bool { _, ok := h.RegionString(999999); return ok },
		"Level":         func() bool { _, ok := h.Level(999999); return ok },
		"IsUrban":       func() bool { _, ok := h.IsUrban(999999); return ok },
		"Record":        func() bool { _, ok := h.Record(999999); return ok },
		"ChildrenCodes": func() bool { _, ok := h.ChildrenCodes(999999); return ok },
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			if check() {
				t.Errorf("%s(999999) reported present", name)
			}
			d := h.LastDiagnostic()
			if d.Kind != DiagNotFound || d.Code != 999999 {
				t.Errorf("LastDiagnostic = %+v, want not_found for 999999", d)
			}
			if d.Message != "SIRUTA code 999999 is not in the database" {
				t.Errorf("message = %q", d.Message)
			}
		})
	}
}

func TestHandle_UnknownCounty(t *testing.T) {
	h := sampleHandle(t)

	if got, ok := h.County(1008); !ok || got != 42 {
		t.Errorf("County(1008) = %d, %v, want 42", got, ok)
	}
	if _, ok := h.CountyString(1008, true); ok {
		t.Error("CountyString(1008) should be absent for a county without marker")
	}
	if d := h.LastDiagnostic(); d.Kind != DiagUnknownCounty {
		t.Errorf("LastDiagnostic kind = %s, want %s", d.Kind, DiagUnknownCounty)
	}
}

func TestHandle_ChildrenCodes(t *testing.T) {
	h := sampleHandle(t)

	tests := []struct {
		code int
		want []int
	}{
		{10, []int{1008, 1017, 1213}},
		{1017, []int{1035, 1044}},
		{38, []int{13169, 13187}},
		{86453, []int{84139}},
		{1035, []int{}},
	}

	for _, tt := range tests {
		got, ok := h.ChildrenCodes(tt.code)
		if !ok {
			t.Errorf("ChildrenCodes(%d) reported absent", tt.code)
			continue
		}
		if got == nil || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ChildrenCodes(%d) = %#v, want %#v", tt.code, got, tt.want)
		}
	}

	// The result belongs to the caller.
	got, _ := h.ChildrenCodes(10)
	got[0] = -1
	if again, _ := h.ChildrenCodes(10); again[0] != 1008 {
		t.Error("ChildrenCodes result aliases registry state")
	}
}

func TestHandle_ChildrenMatchParentScan(t *testing.T) {
	h := sampleHandle(t)
	reg := h.Registry()

	for _, parent := range reg.Codes() {
		var want []int
		reg.Each(func(rec Record) bool {
			if rec.Parent == parent {
				want = append(want, rec.Code)
			}
			return true
		})
		sort.Ints(want)

		got, _ := h.ChildrenCodes(parent)
		if len(got) != len(want) || (len(want) > 0 && !reflect.DeepEqual(got, want)) {
			t.Errorf("ChildrenCodes(%d) = %v, scan gives %v", parent, got, want)
		}
	}
}

func TestHandle_Diacritics(t *testing.T) {
	tests := []struct {
		name string
		cfg  DiacriticConfig
		code int
		want string
	}{
		{"neutral", DiacriticConfig{}, 38, "JUDEȚUL ARGEȘ"},
		{"cedilla", DiacriticConfig{UseCedilla: true}, 38, "JUDEŢUL ARGEŞ"},
		{"strip", DiacriticConfig{StripAll: true}, 38, "JUDETUL ARGES"},
		{"pre1993", DiacriticConfig{Pre1993: true}, 86453, "SÎNCRĂIENI"},
		{"stored cedilla shown with comma", DiacriticConfig{}, 13187, "ȘTEFĂNEȘTI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sampleHandle(t, WithDiacritics(tt.cfg))
			got, _ := h.Name(tt.code, true)
			if got != tt.want {
				t.Errorf("Name(%d) = %q, want %q", tt.code, got, tt.want)
			}
			if h.Diacritics() != tt.cfg {
				t.Errorf("Diacritics() = %+v", h.Diacritics())
			}
		})
	}

	h := sampleHandle(t, WithDiacritics(DiacriticConfig{StripAll: true}))
	if got, _ := h.RegionString(179132); got != "Bucuresti-Ilfov" {
		t.Errorf("RegionString stripped = %q", got)
	}
	if got, _ := h.TypeString(86453); got != "comuna" {
		t.Errorf("TypeString stripped = %q", got)
	}
	if rec, _ := h.Record(38); rec.Name != "JUDETUL ARGES" {
		t.Errorf("Record name stripped = %q", rec.Name)
	}
}

func TestHandle_CountyNames(t *testing.T) {
	h := sampleHandle(t)

	got := h.CountyNames(false)
	want := []string{"ALBA", "ARAD", "ARGEȘ", "BIHOR", "BUCUREȘTI", "HARGHITA"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountyNames(false) = %v, want %v", got, want)
	}

	got = h.CountyNames(true)
	want = []string{
		"JUDEȚUL ALBA", "JUDEȚUL ARAD", "JUDEȚUL ARGEȘ",
		"JUDEȚUL BIHOR", "JUDEȚUL HARGHITA", "MUNICIPIUL BUCUREȘTI",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountyNames(true) = %v, want %v", got, want)
	}
}

// reverseCollator sorts descending, standing in for a custom collation.
type reverseCollator struct{}

func (reverseCollator) SortStrings(x []string) {
	sort.Sort(sort.Reverse(sort.StringSlice(x)))
}

func TestHandle_WithCollator(t *testing.T) {
	h := sampleHandle(t, WithCollator(reverseCollator{}))

	got := h.CountyNames(false)
	if got[0] != "HARGHITA" || got[len(got)-1] != "ALBA" {
		t.Errorf("CountyNames with reverse collator = %v", got)
	}
}

func TestHandle_Counties(t *testing.T) {
	h := sampleHandle(t)

	counties := h.Counties()
	if len(counties) != 6 {
		t.Fatalf("got %d counties, want 6", len(counties))
	}
	first := counties[0]
	if first.Number != 1 || first.Code != 10 || first.Name != "JUDEȚUL ALBA" {
		t.Errorf("first county = %+v", first)
	}
	// București sorts by its prefix-less name.
	if counties[4].Number != 40 {
		t.Errorf("counties[4] = %+v, want București", counties[4])
	}
}

func TestHandle_ByNameNotSupported(t *testing.T) {
	h := sampleHandle(t)

	calls := map[string]func() error{
		"CodeByName":       func() error { _, err := h.CodeByName("ALBA"); return err },
		"ParentCodeByName": func() error { _, err := h.ParentCodeByName("ALBA"); return err },
		"ParentNameByName": func() error { _, err := h.ParentNameByName("ALBA"); return err },
		"PostalCodeByName": func() error { _, err := h.PostalCodeByName("ALBA"); return err },
		"TypeByName":       func() error { _, err := h.TypeByName("ALBA"); return err },
		"CountyByName":     func() error { _, err := h.CountyByName("ALBA"); return err },
		"RegionByName":     func() error { _, err := h.RegionByName("ALBA"); return err },
	}

	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotSupported) {
			t.Errorf("%s: expected ErrNotSupported, got %v", name, err)
		}
	}
}

func TestHandle_ConcurrentQueries(t *testing.T) {
	h := sampleHandle(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					h.Name(10, false)
					h.CountyNames(false)
				} else {
					h.Name(999999, true)
				}
				_ = h.LastDiagnostic()
			}
		}(i)
	}
	wg.Wait()
}
