package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestHandle_ListCodes(t *testing.T) {
	h := sampleHandle(t)

	tests := []struct {
		name   string
		filter ListFilter
		want   []int
	}{
		{
			name:   "by county",
			filter: ListFilter{Counties: []int{1}},
			want:   []int{10, 1017, 1035, 1044, 1213, 1240},
		},
		{
			name:   "by type",
			filter: ListFilter{Types: []int{1}},
			want:   []int{1017, 9262, 13169, 26564},
		},
		{
			name:   "county and type",
			filter: ListFilter{Counties: []int{1, 3}, Types: []int{1}},
			want:   []int{1017, 13169},
		},
		{
			name:   "name substring",
			filter: ListFilter{Name: "ALBA"},
			want:   []int{10, 1017, 1035},
		},
		{
			name:   "exact name matches full and prefix-less names",
			filter: ListFilter{Name: "ALBA IULIA", ExactName: true},
			want:   []int{1017, 1035},
		},
		{
			name:   "exact name with prefix selects only the prefixed record",
			filter: ListFilter{Name: "MUNICIPIUL ALBA IULIA", ExactName: true},
			want:   []int{1017},
		},
		{
			name:   "exact county name",
			filter: ListFilter{Name: "ALBA", ExactName: true},
			want:   []int{10},
		},
		{
			name:   "cedilla filter matches canonical name",
			filter: ListFilter{Name: "ŞTEFĂNEŞTI", ExactName: true},
			want:   []int{13187},
		},
		{
			name:   "no match",
			filter: ListFilter{Counties: []int{2}, Types: []int{9}},
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.ListCodes(tt.filter)
			if got == nil {
				t.Fatal("ListCodes returned nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListCodes(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestHandle_ListCodes_All(t *testing.T) {
	h := sampleHandle(t)

	got := h.ListCodes(ListFilter{})
	if !reflect.DeepEqual(got, h.Registry().Codes()) {
		t.Errorf("empty filter = %v, want every code", got)
	}
}

func TestHandle_ListCodes_Diacritics(t *testing.T) {
	strip := sampleHandle(t, WithDiacritics(DiacriticConfig{StripAll: true}))
	if got := strip.ListCodes(ListFilter{Name: "PITESTI"}); !reflect.DeepEqual(got, []int{13169, 13178}) {
		t.Errorf("stripped name filter = %v", got)
	}

	cedilla := sampleHandle(t, WithDiacritics(DiacriticConfig{UseCedilla: true}))
	if got := cedilla.ListCodes(ListFilter{Name: "ȘTEFĂNEȘTI", ExactName: true}); !reflect.DeepEqual(got, []int{13187}) {
		t.Errorf("cedilla name filter = %v", got)
	}
}

func TestHandle_ListCodes_InvalidFilter(t *testing.T) {
	h := sampleHandle(t)

	for _, f := range []ListFilter{
		{Counties: []int{0}},
		{Types: []int{1, -3}},
	} {
		got := h.ListCodes(f)
		if got == nil || len(got) != 0 {
			t.Errorf("ListCodes(%+v) = %#v, want empty slice", f, got)
		}
		if d := h.LastDiagnostic(); d.Kind != DiagInvalidFilter {
			t.Errorf("LastDiagnostic kind = %s, want %s", d.Kind, DiagInvalidFilter)
		}
		if err := f.Validate(); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidFilter", f, err)
		}
	}
}

func TestParseCodeList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "", want: nil},
		{input: "  ", want: nil},
		{input: "1", want: []int{1}},
		{input: "1,3, 5", want: []int{1, 3, 5}},
		{input: "1,,3", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-2", wantErr: true},
		{input: "alba", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCodeList(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFilter) {
					t.Errorf("expected ErrInvalidFilter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCodeList(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}
