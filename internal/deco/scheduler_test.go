package deco

import "testing"

func TestIdleQueueDefersUntilDrain(t *testing.T) {
	q := &IdleQueue{}
	ran := 0
	q.Schedule(func() { ran++ })
	q.Schedule(func() { ran++ })
	if ran != 0 {
		t.Fatalf("expected nothing to run before Drain")
	}
	if n := q.Drain(); n != 2 || ran != 2 {
		t.Fatalf("expected 2 jobs to run, got n=%d ran=%d", n, ran)
	}
}

func TestIdleQueueJobsScheduledWhileDraining(t *testing.T) {
	q := &IdleQueue{}
	q.Schedule(func() {
		q.Schedule(func() {})
	})
	if n := q.Drain(); n != 1 {
		t.Fatalf("expected 1 job, got %d", n)
	}
	if q.Pending() != 1 {
		t.Fatalf("expected the nested job to wait for the next drain, got %d", q.Pending())
	}
}
