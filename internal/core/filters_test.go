package core

import "testing"

func strptr(s string) *string { return &s }

func TestReconcileFilterDates(t *testing.T) {
	cases := []struct {
		name    string
		current Filters
		patch   FilterPatch
		want    Filters
	}{
		{
			name:  "plain merge",
			patch: FilterPatch{Category: strptr("Dom"), Text: strptr("czynsz")},
			want:  Filters{Category: "Dom", Text: "czynsz"},
		},
		{
			name:    "clearing a field",
			current: Filters{Category: "Dom"},
			patch:   FilterPatch{Category: strptr("")},
			want:    Filters{},
		},
		{
			name:    "from moved past to pulls to up",
			current: Filters{DateFrom: "2024-01-01", DateTo: "2024-01-15"},
			patch:   FilterPatch{DateFrom: strptr("2024-02-01")},
			want:    Filters{DateFrom: "2024-02-01", DateTo: "2024-02-01"},
		},
		{
			name:    "to moved before from pulls from down",
			current: Filters{DateFrom: "2024-01-15", DateTo: "2024-01-31"},
			patch:   FilterPatch{DateTo: strptr("2024-01-01")},
			want:    Filters{DateFrom: "2024-01-01", DateTo: "2024-01-01"},
		},
		{
			name:    "consistent range untouched",
			current: Filters{DateFrom: "2024-01-01"},
			patch:   FilterPatch{DateTo: strptr("2024-03-01")},
			want:    Filters{DateFrom: "2024-01-01", DateTo: "2024-03-01"},
		},
		{
			name:    "single bound never corrected",
			current: Filters{},
			patch:   FilterPatch{DateFrom: strptr("2024-06-01")},
			want:    Filters{DateFrom: "2024-06-01"},
		},
		{
			name:    "unparseable bound left alone",
			current: Filters{DateFrom: "2024-01-01"},
			patch:   FilterPatch{DateTo: strptr("kiedyś")},
			want:    Filters{DateFrom: "2024-01-01", DateTo: "kiedyś"},
		},
		{
			name:    "both bounds patched inverted, from wins",
			patch:   FilterPatch{DateFrom: strptr("2024-05-01"), DateTo: strptr("2024-04-01")},
			want:    Filters{DateFrom: "2024-05-01", DateTo: "2024-05-01"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReconcileFilterDates(tc.current, tc.patch)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
