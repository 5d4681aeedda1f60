package app

import (
	"fmt"
	"testing"
)

func fill(r *LogRing, n int) {
	for i := 1; i <= n; i++ {
		r.Append(fmt.Sprintf("entry %d", i))
	}
}

func TestLogRingEvictsOldestFirst(t *testing.T) {
	r := NewLogRing(LogCapacity, 20)
	fill(r, 300)

	if r.Len() != LogCapacity {
		t.Fatalf("len = %d, want %d", r.Len(), LogCapacity)
	}
	entries := r.all()
	if entries[0] != "entry 45" {
		t.Fatalf("oldest = %q, want entry 45", entries[0])
	}
	if last := entries[len(entries)-1]; last != "entry 300" {
		t.Fatalf("newest = %q, want entry 300", last)
	}
	for _, e := range entries {
		for i := 1; i <= 44; i++ {
			if e == fmt.Sprintf("entry %d", i) {
				t.Fatalf("evicted %q still present", e)
			}
		}
	}
}

func TestLogRing257thEvictsFirst(t *testing.T) {
	r := NewLogRing(LogCapacity, 10)
	fill(r, LogCapacity)
	r.Append("overflow")
	entries := r.all()
	if entries[0] != "entry 2" {
		t.Fatalf("oldest = %q, want entry 2", entries[0])
	}
	if r.Len() != LogCapacity {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestLogRingAutoScrollTracksTail(t *testing.T) {
	r := NewLogRing(LogCapacity, 5)
	for i := 1; i <= 12; i++ {
		r.Append("x")
		if want := max(0, i-5); r.Offset() != want {
			t.Fatalf("after %d appends offset = %d, want %d", i, r.Offset(), want)
		}
	}
}

func TestLogRingManualScrollFreezesOffset(t *testing.T) {
	r := NewLogRing(LogCapacity, 5)
	fill(r, 12)
	r.ScrollUp()
	r.ScrollUp()
	if r.AutoScroll() {
		t.Fatal("scrolling up must disable auto-scroll")
	}
	frozen := r.Offset()
	fill(r, 3)
	if r.Offset() != frozen {
		t.Fatalf("offset moved from %d to %d while frozen", frozen, r.Offset())
	}
}

func TestLogRingScrollDownPastBottomResumesTail(t *testing.T) {
	r := NewLogRing(LogCapacity, 5)
	fill(r, 10)
	r.Top()
	for i := 0; i < 20; i++ {
		r.ScrollDown()
	}
	if r.Offset() != r.MaxOffset() || !r.AutoScroll() {
		t.Fatalf("offset = %d auto = %v, want %d true", r.Offset(), r.AutoScroll(), r.MaxOffset())
	}
	r.Append("new")
	if r.Offset() != r.MaxOffset() {
		t.Fatalf("tail lost after append: offset %d max %d", r.Offset(), r.MaxOffset())
	}
	visible := r.Visible()
	if visible[len(visible)-1] != "new" {
		t.Fatalf("newest entry not visible: %v", visible)
	}
}

func TestLogRingScrollDownShortOfBottom(t *testing.T) {
	r := NewLogRing(LogCapacity, 5)
	fill(r, 10)
	r.Top()
	r.ScrollDown()
	if r.Offset() != 1 || r.AutoScroll() {
		t.Fatalf("offset = %d auto = %v, want 1 false", r.Offset(), r.AutoScroll())
	}
}

func TestLogRingScrollUpFloorsAtZero(t *testing.T) {
	r := NewLogRing(LogCapacity, 5)
	fill(r, 3)
	r.ScrollUp()
	r.ScrollUp()
	if r.Offset() != 0 {
		t.Fatalf("offset = %d", r.Offset())
	}
}

func TestLogRingSetViewportClamps(t *testing.T) {
	r := NewLogRing(LogCapacity, 2)
	fill(r, 10)
	r.ScrollUp()
	if r.Offset() != 7 {
		t.Fatalf("offset = %d, want 7", r.Offset())
	}
	r.SetViewport(8)
	if r.Offset() != 2 {
		t.Fatalf("offset = %d, want clamp to 2", r.Offset())
	}
	r.SetViewport(8)
	if r.Offset() != 2 || r.AutoScroll() {
		t.Fatal("SetViewport is not idempotent")
	}
	r.SetViewport(50)
	if r.Offset() != 0 || len(r.Visible()) != 10 {
		t.Fatalf("offset = %d visible = %d", r.Offset(), len(r.Visible()))
	}
}
