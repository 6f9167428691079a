package util

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "Verildi", []string{"Verildi"}},
		{"several", "Verildi,Teslim edildi,Gecikmeli", []string{"Verildi", "Teslim edildi", "Gecikmeli"}},
		{"whitespace", " Verildi , Gecikmeli ", []string{"Verildi", "Gecikmeli"}},
		{"empty entries", ",Verildi,,Kayıp,", []string{"Verildi", "Kayıp"}},
		{"only separators", " , ,, ", nil},
		{"repeats", "Kayıp,Verildi,Kayıp", []string{"Kayıp", "Verildi"}},
		{"case matters", "kayıp,Kayıp", []string{"kayıp", "Kayıp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitList(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
