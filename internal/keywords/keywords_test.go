package keywords

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "basic description",
			description: "product names, prices, inventory status",
			want:        []string{"product", "names", "prices", "inventory", "status"},
		},
		{
			name:        "lowercases terms",
			description: "Phone Price",
			want:        []string{"phone", "price"},
		},
		{
			name:        "drops short words",
			description: "id of an item",
			want:        []string{"item"},
		},
		{
			name:        "deduplicates preserving first occurrence",
			description: "price, list price, price history",
			want:        []string{"price", "list", "history"},
		},
		{
			name:        "empty description",
			description: "",
			want:        []string{},
		},
		{
			name:        "punctuation only",
			description: "..., --- !!",
			want:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.description).Terms()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.description, got, tt.want)
			}
		})
	}
}

func TestSet_Empty(t *testing.T) {
	if !Extract("").Empty() {
		t.Error("Empty() = false for empty description, want true")
	}
	if Extract("prices").Empty() {
		t.Error("Empty() = true for non-empty description, want false")
	}
}

func TestSet_Len(t *testing.T) {
	s := Extract("phone price")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
