package source

import (
	"reflect"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]struct {
		raw    string
		region string
		want   string
	}{
		"international": {raw: "+1 650-253-0000", region: "NG", want: "+16502530000"},
		"regional":      {raw: "(650) 253-0000", region: "us", want: "+16502530000"},
		"too short":     {raw: "12", region: "US", want: ""},
		"garbage":       {raw: "call us", region: "US", want: ""},
		"empty":         {raw: "   ", region: "US", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := normalizePhone(tt.raw, tt.region); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSplitImageURLs(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want []string
	}{
		"single":         {raw: "https://img.example/a.jpg", want: []string{"https://img.example/a.jpg"}},
		"list":           {raw: "https://img.example/a.jpg , http://img.example/b.jpg", want: []string{"https://img.example/a.jpg", "http://img.example/b.jpg"}},
		"missing scheme": {raw: "img.example/a.jpg", want: []string{"https://img.example/a.jpg"}},
		"idn host":       {raw: "https://bücher.example/a.jpg", want: []string{"https://xn--bcher-kva.example/a.jpg"}},
		"bad scheme":     {raw: "ftp://img.example/a.jpg", want: nil},
		"no dot host":    {raw: "https://localhost/a.jpg", want: nil},
		"spaces":         {raw: "not a url", want: nil},
		"duplicates":     {raw: "https://img.example/a.jpg,https://img.example/a.jpg", want: []string{"https://img.example/a.jpg"}},
		"empty":          {raw: " ", want: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := splitImageURLs(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
