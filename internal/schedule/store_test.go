package schedule

import (
	"reflect"
	"sync"
	"testing"
)

func seed() []Event {
	return []Event{
		{ID: 1, Title: "Standup", Start: 10, Duration: 1, Day: 0},
		{ID: 2, Title: "Review", Start: 14, Duration: 2, Day: 3},
		{ID: 3, Title: "Lunch", Start: 12, Duration: 1, Day: 4},
	}
}

func TestMoveEventOnlyTouchesTarget(t *testing.T) {
	in := seed()
	for _, target := range in {
		out := MoveEvent(in, target.ID, 6, 23)
		if len(out) != len(in) {
			t.Fatalf("MoveEvent() len = %d, want %d", len(out), len(in))
		}
		for i, ev := range out {
			if ev.ID != target.ID {
				if ev != in[i] {
					t.Fatalf("MoveEvent(%d) changed event %d: %+v", target.ID, ev.ID, ev)
				}
				continue
			}
			want := in[i]
			want.Day, want.Start = 6, 23
			if ev != want {
				t.Fatalf("MoveEvent(%d) = %+v, want %+v", target.ID, ev, want)
			}
		}
	}
}

func TestMoveEventDoesNotAliasInput(t *testing.T) {
	in := seed()
	out := MoveEvent(in, 1, 2, 14)
	if in[0].Day != 0 || in[0].Start != 10 {
		t.Fatalf("input mutated: %+v", in[0])
	}
	out[1].Title = "changed"
	if in[1].Title != "Review" {
		t.Fatalf("output aliases input")
	}
}

func TestMoveEventUnknownID(t *testing.T) {
	in := seed()
	out := MoveEvent(in, 999, 2, 9)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("MoveEvent(999) = %+v, want %+v", out, in)
	}
}

func TestResizeEventUnknownID(t *testing.T) {
	in := seed()
	out := ResizeEvent(in, 42, 5)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("ResizeEvent(42) = %+v, want %+v", out, in)
	}
}

func TestMoveEventScenario(t *testing.T) {
	s := NewStore(seed())
	snap := s.MoveEvent(1, 2, 14)

	got, ok := snap.Get(1)
	if !ok {
		t.Fatalf("event 1 missing")
	}
	want := Event{ID: 1, Title: "Standup", Start: 14, Duration: 1, Day: 2}
	if got != want {
		t.Fatalf("event 1 = %+v, want %+v", got, want)
	}
	for _, ev := range snap.Events()[1:] {
		orig := seed()[ev.ID-1]
		if ev != orig {
			t.Fatalf("event %d = %+v, want %+v", ev.ID, ev, orig)
		}
	}
}

func TestStoreMoveIdempotent(t *testing.T) {
	s := NewStore(seed())
	first := s.MoveEvent(2, 5, 8)
	second := s.MoveEvent(2, 5, 8)

	if first == second {
		t.Fatalf("expected a new snapshot per mutation")
	}
	if !reflect.DeepEqual(first.Events(), second.Events()) {
		t.Fatalf("repeated move changed fields: %+v vs %+v", first.Events(), second.Events())
	}
	if second.Version() != first.Version()+1 {
		t.Fatalf("Version() = %d, want %d", second.Version(), first.Version()+1)
	}
}

func TestStoreUnknownIDStillNewSnapshot(t *testing.T) {
	s := NewStore(seed())
	before := s.Snapshot()
	after := s.MoveEvent(999, 2, 9)

	if before == after {
		t.Fatalf("expected snapshot identity to change")
	}
	if !reflect.DeepEqual(before.Events(), after.Events()) {
		t.Fatalf("unknown id changed content")
	}
}

func TestStoreResizeDoesNotClamp(t *testing.T) {
	s := NewStore(seed())
	snap := s.ResizeEvent(1, 4)
	if ev, _ := snap.Get(1); ev.Duration != 4 {
		t.Fatalf("Duration = %d, want 4", ev.Duration)
	}
}

func TestNewStoreSanitizesSeed(t *testing.T) {
	s := NewStore([]Event{
		{ID: 1, Title: "a", Start: 9, Duration: 0},
		{ID: 1, Title: "dup", Start: 11, Duration: 2},
		{ID: 2, Title: "b", Start: 14, Duration: 2},
	})
	snap := s.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}
	if ev, _ := snap.Get(1); ev.Title != "a" || ev.Duration != 1 {
		t.Fatalf("event 1 = %+v", ev)
	}
}

func TestStoreObserversSeeEveryMutation(t *testing.T) {
	s := NewStore(seed())

	var got []Mutation
	var versions []uint64
	s.Subscribe(func(snap *Snapshot, m Mutation) {
		got = append(got, m)
		versions = append(versions, snap.Version())
	})

	s.MoveEvent(1, 2, 14)
	s.ResizeEvent(1, 3)
	s.MoveEvent(999, 0, 0)

	want := []Mutation{
		{Kind: KindMove, EventID: 1, Day: 2, Start: 14, Duration: 1, Matched: true},
		{Kind: KindResize, EventID: 1, Day: 2, Start: 14, Duration: 3, Matched: true},
		{Kind: KindMove, EventID: 999, Day: 0, Start: 0, Matched: false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mutations = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(versions, []uint64{1, 2, 3}) {
		t.Fatalf("versions = %v", versions)
	}
}

func TestStoreConcurrentMutations(t *testing.T) {
	s := NewStore(seed())

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if i%2 == 0 {
					s.MoveEvent(1+w%3, w%7, i%24)
				} else {
					s.ResizeEvent(1+w%3, 1+i%4)
				}
			}
		}(w)
	}
	wg.Wait()

	if v := s.Snapshot().Version(); v != workers*perWorker {
		t.Fatalf("Version() = %d, want %d", v, workers*perWorker)
	}
}

func TestStoreSourceTagsMutations(t *testing.T) {
	s := NewStore(seed())

	var sources []string
	s.Subscribe(func(_ *Snapshot, m Mutation) {
		sources = append(sources, m.Source)
	})

	var m Mutator = s.Source("ws:abc")
	m.MoveEvent(1, 1, 1)
	m.ResizeEvent(1, 2)
	s.MoveEvent(2, 0, 9)

	if !reflect.DeepEqual(sources, []string{"ws:abc", "ws:abc", ""}) {
		t.Fatalf("sources = %q", sources)
	}
	if m.Snapshot() != s.Snapshot() {
		t.Fatalf("sourced Snapshot() differs from store")
	}
}
