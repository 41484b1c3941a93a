package display

import (
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		columns int
		rows    int
		want    []string
	}{
		{
			name: "short text fits one row",
			text: "Ready...", columns: 16, rows: 2,
			want: []string{"Ready..."},
		},
		{
			name: "wraps on word boundary",
			text: "Smile for the camera!", columns: 16, rows: 2,
			want: []string{"Smile for the", "camera!"},
		},
		{
			name: "overflow beyond last row is dropped",
			text: "a very long caption describing the whole scene in detail", columns: 16, rows: 2,
			want: []string{"a very long", "caption"},
		},
		{
			name: "word longer than a row is hard-split",
			text: "incomprehensibilities", columns: 16, rows: 2,
			want: []string{"incomprehensibil", "ities"},
		},
		{
			name: "empty text",
			text: "", columns: 16, rows: 2,
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Wrap(tc.text, tc.columns, tc.rows)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Wrap(%q) = %v, want %v", tc.text, got, tc.want)
			}
			for _, line := range got {
				if len(line) > tc.columns {
					t.Fatalf("line %q exceeds %d columns", line, tc.columns)
				}
			}
		})
	}
}
