package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"reflect"
	"testing"
	"time"
)

// Ten places around the Macau peninsula and Taipa.
func tenMacauPlaces() []*domain.Place {
	coords := [][2]float64{
		{113.5439, 22.1987}, {113.5465, 22.1917}, {113.5409, 22.1868}, {113.5367, 22.1876},
		{113.5536, 22.1908}, {113.5602, 22.1554}, {113.5587, 22.1530}, {113.5690, 22.1585},
		{113.5788, 22.1456}, {113.5497, 22.1300},
	}
	out := make([]*domain.Place, len(coords))
	for i, c := range coords {
		out[i] = place(fmt.Sprintf("P%02d", i), domain.RegionMacau, c[0], c[1])
	}
	return out
}

// A 20x20 grid over the Macau peninsula.
func macauGrid() []*domain.Place {
	out := make([]*domain.Place, 0, 400)
	for r := 0; r < 20; r++ {
		for c := 0; c < 20; c++ {
			lon := 113.530 + float64(c)*0.0015
			lat := 22.180 + float64(r)*0.0012
			out = append(out, place(fmt.Sprintf("G%02d%02d", r, c), domain.RegionMacau, lon, lat))
		}
	}
	return out
}

func allIDs(places []*domain.Place) []domain.PlaceID {
	out := make([]domain.PlaceID, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}

func newTestOptimizer(store *stubStore, opts ...OptimizerOption) *Optimizer {
	return NewOptimizer(NewPlaceLookup(store), hkt, opts...)
}

func TestPlanIsExhaustiveAndBalanced(t *testing.T) {
	places := tenMacauPlaces()
	o := newTestOptimizer(newStubStore(places...))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 3, PlaceIDs: allIDs(places)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(it.Days))
	}

	seen := map[domain.PlaceID]int{}
	for _, d := range it.Days {
		if n := len(d.PlaceIDs); n < 3 || n > 4 {
			t.Fatalf("day %d has %d places, want 3 or 4", d.Day, n)
		}
		for _, id := range d.PlaceIDs {
			seen[id]++
		}
	}
	for _, p := range places {
		if seen[p.ID] != 1 {
			t.Fatalf("place %s assigned %d times, want 1", p.ID, seen[p.ID])
		}
	}
	if len(seen) != len(places) {
		t.Fatalf("assigned %d distinct places, want %d", len(seen), len(places))
	}
}

func TestPlanIsIndependentOfInputOrder(t *testing.T) {
	places := tenMacauPlaces()
	o := newTestOptimizer(newStubStore(places...))

	forward := allIDs(places)
	backward := make([]domain.PlaceID, len(forward))
	for i, id := range forward {
		backward[len(forward)-1-i] = id
	}
	shuffled := append([]domain.PlaceID{forward[7], forward[2], forward[9]}, forward[:2]...)
	shuffled = append(shuffled, forward[3:7]...)
	shuffled = append(shuffled, forward[8])

	var first *domain.Itinerary
	for _, in := range [][]domain.PlaceID{forward, backward, shuffled} {
		it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 3, PlaceIDs: in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == nil {
			first = it
			continue
		}
		if !reflect.DeepEqual(first.Days, it.Days) {
			t.Fatalf("plan differs for input order %v:\n got %v\nwant %v", in, it.Days, first.Days)
		}
	}
}

func TestPlanWithoutPlacesReturnsEmptyDays(t *testing.T) {
	store := newStubStore()
	o := newTestOptimizer(store)

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-12-30", DurationDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(it.Days))
	}
	wantDates := []string{"2026-12-30", "2026-12-31", "2027-01-01"}
	for i, d := range it.Days {
		if d.Day != i+1 || len(d.PlaceIDs) != 0 || d.Date.Format(domain.DateLayout) != wantDates[i] {
			t.Fatalf("day %d = %+v, want empty day %s", i, d, wantDates[i])
		}
	}
	if store.calls != 0 {
		t.Fatalf("store called %d times, want 0", store.calls)
	}
}

func TestPlanMorePlacesThanDaysLeavesEmptyDays(t *testing.T) {
	places := tenMacauPlaces()[:2]
	o := newTestOptimizer(newStubStore(places...))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 4, PlaceIDs: allIDs(places)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Days) != 4 {
		t.Fatalf("days = %d, want 4", len(it.Days))
	}
	if it.PlaceCount() != 2 {
		t.Fatalf("places = %d, want 2", it.PlaceCount())
	}
	for _, d := range it.Days {
		if len(d.PlaceIDs) > 1 {
			t.Fatalf("day %d has %d places, want at most 1", d.Day, len(d.PlaceIDs))
		}
	}
}

func TestPlanCollapsesDuplicates(t *testing.T) {
	places := tenMacauPlaces()[:3]
	o := newTestOptimizer(newStubStore(places...))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 1, PlaceIDs: ids("P00", "P01", "P00", " P02 ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.PlaceCount() != 3 {
		t.Fatalf("places = %d, want 3", it.PlaceCount())
	}
}

func TestPlanValidation(t *testing.T) {
	store := newStubStore(append(tenMacauPlaces(), place("HK1", domain.RegionHongKong, 114.17, 22.32))...)

	cases := []struct {
		name string
		req  PlanRequest
		want domain.ErrorKind
	}{
		{name: "bad date", req: PlanRequest{StartDate: "April 1", DurationDays: 0}, want: domain.KindInvalidDateFormat},
		{name: "zero days", req: PlanRequest{StartDate: "2026-04-01", DurationDays: 0, PlaceIDs: ids("P00")}, want: domain.KindInvalidDuration},
		{name: "over a year", req: PlanRequest{StartDate: "2026-04-01", DurationDays: maxDurationDays + 1, PlaceIDs: ids("P00")}, want: domain.KindInvalidDuration},
		{name: "huge duration", req: PlanRequest{StartDate: "2026-04-01", DurationDays: 1 << 62, PlaceIDs: ids("P00")}, want: domain.KindInvalidDuration},
		{name: "unknown place", req: PlanRequest{StartDate: "2026-04-01", DurationDays: 2, PlaceIDs: ids("P00", "NOPE")}, want: domain.KindPlaceNotFound},
		{name: "mixed regions", req: PlanRequest{StartDate: "2026-04-01", DurationDays: 2, PlaceIDs: ids("P00", "HK1")}, want: domain.KindRegionMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestOptimizer(store).Plan(context.Background(), tc.req)
			if got := domain.KindOf(err); got != tc.want {
				t.Fatalf("kind = %v, want %v (err=%v)", got, tc.want, err)
			}
		})
	}
}

func TestPlanPrefersDaysWherePlacesAreOpen(t *testing.T) {
	tuesdayOnly := &domain.OpeningHours{Regular: []domain.RegularHours{{Day: 2, Open: "10:00", Close: "18:00"}}}

	north1 := place("N1", domain.RegionMacau, 113.5439, 22.1987)
	north2 := place("N2", domain.RegionMacau, 113.5445, 22.1980)
	north1.Hours, north2.Hours = tuesdayOnly, tuesdayOnly
	south1 := place("S1", domain.RegionMacau, 113.5602, 22.1254)
	south2 := place("S2", domain.RegionMacau, 113.5610, 22.1260)

	o := newTestOptimizer(newStubStore(north1, north2, south1, south2))

	// 2026-03-09 is a Monday.
	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-03-09", DurationDays: 2, PlaceIDs: ids("N1", "N2", "S1", "S2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range it.Days[1].PlaceIDs {
		if id != "N1" && id != "N2" {
			t.Fatalf("tuesday holds %v, want the north places", it.Days[1].PlaceIDs)
		}
	}
	if len(it.Days[1].PlaceIDs) != 2 {
		t.Fatalf("tuesday holds %v, want two places", it.Days[1].PlaceIDs)
	}
}

func TestPlanFallsBackWhenMatrixFails(t *testing.T) {
	places := tenMacauPlaces()
	p := &matrixStubProvider{matrixErr: errors.New("matrix down")}
	o := newTestOptimizer(newStubStore(places...), WithProviderCost(testGateway(p), domain.TravelModeDriving))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 2, PlaceIDs: allIDs(places)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.PlaceCount() != len(places) {
		t.Fatalf("places = %d, want %d", it.PlaceCount(), len(places))
	}
	if p.matrixCalls == 0 {
		t.Fatal("matrix was never requested")
	}
}

func TestPlanUsesProviderMatrix(t *testing.T) {
	places := tenMacauPlaces()
	p := &matrixStubProvider{}
	o := newTestOptimizer(newStubStore(places...), WithProviderCost(testGateway(p), domain.TravelModeDriving))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: 2, PlaceIDs: allIDs(places)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.matrixCalls != 2 {
		t.Fatalf("matrix calls = %d, want one per day", p.matrixCalls)
	}
	if it.PlaceCount() != len(places) {
		t.Fatalf("places = %d, want %d", it.PlaceCount(), len(places))
	}
}

func TestPlanCancelled(t *testing.T) {
	places := tenMacauPlaces()
	store := newStubStore(places...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.err = context.Canceled

	_, err := newTestOptimizer(store).Plan(ctx, PlanRequest{StartDate: "2026-04-01", DurationDays: 2, PlaceIDs: allIDs(places)})
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
}

func TestPlanLongestTripIsAccepted(t *testing.T) {
	places := tenMacauPlaces()
	o := newTestOptimizer(newStubStore(places...))

	it, err := o.Plan(context.Background(), PlanRequest{StartDate: "2026-04-01", DurationDays: maxDurationDays, PlaceIDs: allIDs(places)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Days) != maxDurationDays {
		t.Fatalf("days = %d, want %d", len(it.Days), maxDurationDays)
	}
}

func TestPlanHonoursDeadlineOnLargeDay(t *testing.T) {
	places := macauGrid()
	o := newTestOptimizer(newStubStore(places...))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	began := time.Now()
	_, err := o.Plan(ctx, PlanRequest{StartDate: "2026-04-01", DurationDays: 1, PlaceIDs: allIDs(places)})
	elapsed := time.Since(began)

	if got := domain.KindOf(err); got != domain.KindCancelled {
		t.Fatalf("kind = %v, want %v (err=%v)", got, domain.KindCancelled, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want it to wrap the deadline", err)
	}
	if elapsed > time.Second {
		t.Fatalf("Plan returned after %v, want it to stop soon after the deadline", elapsed)
	}
}

func TestPlanExpiredDeadline(t *testing.T) {
	places := macauGrid()
	o := newTestOptimizer(newStubStore(places...))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := o.Plan(ctx, PlanRequest{StartDate: "2026-04-01", DurationDays: 1, PlaceIDs: allIDs(places)})
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
}
