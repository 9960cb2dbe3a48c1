package main

import (
	"testing"

	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/loader"
)

func TestParseFilters(t *testing.T) {
	ds, err := parseFilters(" brightness=0.2, blur=3 ,invert")
	if err != nil {
		t.Fatalf("parseFilters() error = %v", err)
	}
	want := []filter.Descriptor{
		filter.D(filter.Brightness, 0.2),
		filter.D(filter.Blur, 3),
		filter.D(filter.Invert, 1),
	}
	if len(ds) != len(want) {
		t.Fatalf("len = %d, want %d", len(ds), len(want))
	}
	for i := range want {
		if ds[i] != want[i] {
			t.Errorf("ds[%d] = %+v, want %+v", i, ds[i], want[i])
		}
	}

	if ds, err := parseFilters(""); err != nil || ds != nil {
		t.Errorf("parseFilters(\"\") = %v, %v, want nil, nil", ds, err)
	}
	if _, err := parseFilters("blur=lots"); err == nil {
		t.Error("parseFilters(blur=lots) succeeded")
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		arg  string
		want loader.Source
	}{
		{"photo.jpg", loader.File("photo.jpg")},
		{"https://example.com/a.png", loader.URL("https://example.com/a.png")},
		{"data:image/png;base64,AAAA", loader.URL("data:image/png;base64,AAAA")},
	}
	for _, tt := range tests {
		if got := source(tt.arg); got != tt.want {
			t.Errorf("source(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}
