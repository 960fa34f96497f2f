package view

import (
	"testing"

	"github.com/zappabad/stocksurge/internal/notify"
)

func TestNotificationsCapacity(t *testing.T) {
	v := NewNotifications(2)
	v.Add(notify.Notification{Message: "a"})
	v.Add(notify.Notification{Message: "b"})
	v.Add(notify.Notification{Message: "c", Level: notify.LevelError})

	all := v.All()
	if len(all) != 2 || all[0].Message != "b" || all[1].Message != "c" {
		t.Fatalf("unexpected notifications %+v", all)
	}
	last, ok := v.Latest()
	if !ok || last.Level != notify.LevelError {
		t.Errorf("unexpected latest %+v", last)
	}
}

func TestNotificationsSeen(t *testing.T) {
	v := NewNotifications(10)
	v.Add(notify.Notification{Message: "a"})
	if len(v.Unseen()) != 1 {
		t.Fatal("expected one unseen")
	}
	v.MarkSeen()
	if len(v.Unseen()) != 0 {
		t.Error("expected none unseen")
	}
	v.Add(notify.Notification{Message: "b"})
	if got := v.Unseen(); len(got) != 1 || got[0].Message != "b" {
		t.Errorf("unexpected unseen %+v", got)
	}
	v.Clear()
	if _, ok := v.Latest(); ok {
		t.Error("expected empty after clear")
	}
}
