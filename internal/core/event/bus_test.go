package event

import "testing"

func TestBusDeliversOnNextSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e Scored) { got = append(got, e.Score) })

	Emit(b, Scored{Score: 1})
	Emit(b, Scored{Score: 2})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("delivered before swap: %v", got)
	}
	if b.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", b.Pending())
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v, want [1 2]", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 {
		t.Fatalf("events redelivered: %v", got)
	}
}

func TestBusRoutesByType(t *testing.T) {
	b := NewBus()
	var overs, scores int
	Subscribe(b, func(GameOver) { overs++ })
	Subscribe(b, func(Scored) { scores++ })
	Subscribe(b, func(Scored) { scores++ })

	Emit(b, GameOver{Score: 3})
	Emit(b, Scored{Score: 3})
	b.Flush()

	if overs != 1 || scores != 2 {
		t.Fatalf("overs=%d scores=%d", overs, scores)
	}
}

func TestBusEmitDuringDispatchWaitsForNextFlush(t *testing.T) {
	b := NewBus()
	var removed int
	Subscribe(b, func(e ObstacleSpawned) { Emit(b, ObstacleRemoved{ID: e.ID}) })
	Subscribe(b, func(ObstacleRemoved) { removed++ })

	Emit(b, ObstacleSpawned{ID: 7})
	b.Flush()
	if removed != 0 {
		t.Fatal("chained event delivered in the same flush")
	}
	b.Flush()
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}
