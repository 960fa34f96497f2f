package view

import (
	"testing"

	"github.com/zappabad/stocksurge/internal/news"
)

func TestNewsHistoryAppendOnly(t *testing.T) {
	v := NewNewsHistory()
	for i := 0; i < 100; i++ {
		v.Apply(news.Event{Content: "x", Company: "TechCorp", Time: int64(i * 5)})
	}
	if v.Count() != 100 {
		t.Fatalf("expected 100 events, got %d", v.Count())
	}

	all := v.All()
	for i, ev := range all {
		if ev.Time != int64(i*5) {
			t.Fatalf("event %d out of order: time %d", i, ev.Time)
		}
	}

	latest := v.Latest(3)
	if len(latest) != 3 || latest[0].Time != 485 || latest[2].Time != 495 {
		t.Errorf("unexpected latest: %+v", latest)
	}
	if got := v.Latest(500); len(got) != 100 {
		t.Errorf("expected Latest to clamp to 100, got %d", len(got))
	}
	if v.Latest(0) != nil {
		t.Error("expected nil for n=0")
	}
}

func TestNewsHistoryReset(t *testing.T) {
	v := NewNewsHistory()
	v.Apply(news.Event{Content: "x"})
	v.Reset()
	if v.Count() != 0 || len(v.All()) != 0 {
		t.Error("expected empty history after reset")
	}
}

func TestNewsHistoryAllIsCopy(t *testing.T) {
	v := NewNewsHistory()
	v.Apply(news.Event{Content: "a"})
	all := v.All()
	all[0].Content = "b"
	if v.All()[0].Content != "a" {
		t.Error("All must return a copy")
	}
}
