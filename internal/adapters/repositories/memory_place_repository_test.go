package repositories

import (
	"context"
	"itinerary-route-service/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

const twoPlaces = `[
	{"id": "b", "name": "B", "region": " Macau ", "category": "museum",
	 "location": {"address": "Taipa", "latitude": 22.15, "longitude": 113.55},
	 "hours": {"timezone": "Asia/Macau", "regular": [{"day": 2, "open": "10:00", "close": "18:00"}]}},
	{"id": "a", "name": "A", "region": "hong-kong",
	 "location": {"latitude": 22.28, "longitude": 114.15}}
]`

func TestLoadMemoryPlaceRepository(t *testing.T) {
	repo, err := LoadMemoryPlaceRepository(writeSeed(t, twoPlaces))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	got, err := repo.GetPlaces(ctx, []domain.PlaceID{"a", "b", "zzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	b := got["b"]
	if b.Region != domain.RegionMacau {
		t.Fatalf("region = %q, want %q", b.Region, domain.RegionMacau)
	}
	if b.Location.Lon != 113.55 || b.Location.Lat != 22.15 {
		t.Fatalf("location = %+v", b.Location)
	}
	if b.OpenOn(time.Monday) || !b.OpenOn(time.Tuesday) {
		t.Fatalf("hours = %+v, want tuesday only", b.Hours)
	}
	if got["a"].Hours != nil {
		t.Fatalf("a hours = %+v, want nil", got["a"].Hours)
	}
}

func TestMemoryListPlacesFiltersByRegion(t *testing.T) {
	repo, err := LoadMemoryPlaceRepository(writeSeed(t, twoPlaces))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	all, _ := repo.ListPlaces(ctx, "")
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("all = %v, want [a b] sorted", all)
	}

	macau, _ := repo.ListPlaces(ctx, "MACAU")
	if len(macau) != 1 || macau[0].ID != "b" {
		t.Fatalf("macau = %v, want [b]", macau)
	}

	none, _ := repo.ListPlaces(ctx, "taiwan")
	if len(none) != 0 {
		t.Fatalf("taiwan = %v, want empty", none)
	}
}

func TestMemoryRepositoryHonoursCancellation(t *testing.T) {
	repo := NewMemoryPlaceRepository(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.GetPlaces(ctx, []domain.PlaceID{"a"}); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestLoadPlaceSeedsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{`, "parse json"},
		{"blank id", `[{"id": " ", "region": "macau", "location": {}}]`, "id cannot be empty"},
		{"duplicate", `[{"id": "x", "region": "macau", "location": {}}, {"id": "x", "region": "macau", "location": {}}]`, "duplicate id"},
		{"no region", `[{"id": "x", "location": {}}]`, "region cannot be empty"},
		{"bad coords", `[{"id": "x", "region": "macau", "location": {"latitude": 95, "longitude": 10}}]`, "invalid coordinates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadPlaceSeeds(writeSeed(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestLoadPlaceSeedsMissingFile(t *testing.T) {
	if _, err := LoadPlaceSeeds(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBundledSeedLoads(t *testing.T) {
	places, err := LoadPlaceSeeds(filepath.Join("..", "..", "..", "data", "seeds", "places.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regions := map[domain.Region]int{}
	for _, p := range places {
		regions[p.Region]++
	}
	if regions[domain.RegionMacau] == 0 || regions[domain.RegionHongKong] == 0 {
		t.Fatalf("regions = %v, want both macau and hong-kong", regions)
	}
}
