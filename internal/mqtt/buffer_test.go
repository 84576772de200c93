package mqtt

import "testing"

func TestRingBufferEmptyDrain(t *testing.T) {
	rb := newRingBuffer(10)
	got, dropped := rb.drain()
	if got != nil || dropped != 0 {
		t.Errorf("expected empty drain, got %d items, %d dropped", len(got), dropped)
	}
}

func TestRingBufferPushAndDrain(t *testing.T) {
	rb := newRingBuffer(10)
	for i := 0; i < 5; i++ {
		rb.push(pending{topic: "t", payload: []byte{byte(i)}})
	}
	if rb.len() != 5 {
		t.Fatalf("expected len 5, got %d", rb.len())
	}

	got, dropped := rb.drain()
	if len(got) != 5 || dropped != 0 {
		t.Fatalf("expected 5 items and none dropped, got %d, %d", len(got), dropped)
	}
	for i := range got {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}
	if rb.len() != 0 {
		t.Errorf("expected empty buffer after drain, got %d", rb.len())
	}
}

func TestRingBufferOverflowKeepsNewest(t *testing.T) {
	rb := newRingBuffer(5)
	for i := 0; i < 8; i++ {
		rb.push(pending{topic: "t", payload: []byte{byte(i)}})
	}

	got, dropped := rb.drain()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	if dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", dropped)
	}
	for i := range got {
		if want := byte(i + 3); got[i].payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, got[i].payload[0])
		}
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	rb := newRingBuffer(3)
	for i := 0; i < 4; i++ {
		rb.push(pending{payload: []byte{byte(i)}})
	}
	rb.drain()

	rb.push(pending{payload: []byte{42}})
	got, dropped := rb.drain()
	if len(got) != 1 || got[0].payload[0] != 42 || dropped != 0 {
		t.Errorf("unexpected drain after reuse: %+v, dropped %d", got, dropped)
	}
}

func TestRingBufferMinimumCapacity(t *testing.T) {
	rb := newRingBuffer(0)
	rb.push(pending{payload: []byte{1}})
	rb.push(pending{payload: []byte{2}})
	got, dropped := rb.drain()
	if len(got) != 1 || got[0].payload[0] != 2 || dropped != 1 {
		t.Errorf("expected newest item only, got %+v, dropped %d", got, dropped)
	}
}
