package services

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name              string
		page, limit, fall int
		wantPage          int
		wantLimit         int
	}{
		{"defaults", 0, 0, 12, 1, 12},
		{"negative page", -3, 5, 12, 1, 5},
		{"capped limit", 2, 500, 12, 2, MaxPageLimit},
		{"no fallback", 1, 0, 0, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePage(tt.page, tt.limit, tt.fall)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("NormalizePage() = (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestEmptyPageBeyondRange(t *testing.T) {
	out := EmptyPage[int](7, 25, 10)
	if out.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", out.TotalPages)
	}
	if out.Items == nil || len(out.Items) != 0 {
		t.Errorf("expected an empty, non-nil item list, got %#v", out.Items)
	}
	if PageOffset(3, 10) != 20 {
		t.Errorf("unexpected offset %d", PageOffset(3, 10))
	}
}
