package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.Operation("create_playlist", nil)
	r.Operation("create_playlist", nil)
	r.Operation("create_playlist", errors.New("empty name"))
	r.Notification("error")
	r.SetCounts(2, 7)
	r.SourceReleased()

	if v := testutil.ToFloat64(r.Operations.WithLabelValues("create_playlist", StatusOK)); v != 2 {
		t.Errorf("ok operations = %v, expected 2", v)
	}
	if v := testutil.ToFloat64(r.Operations.WithLabelValues("create_playlist", StatusError)); v != 1 {
		t.Errorf("error operations = %v, expected 1", v)
	}
	if v := testutil.ToFloat64(r.Notifications.WithLabelValues("error")); v != 1 {
		t.Errorf("error notifications = %v, expected 1", v)
	}
	if v := testutil.ToFloat64(r.Tracks); v != 7 {
		t.Errorf("tracks = %v, expected 7", v)
	}
	if v := testutil.ToFloat64(r.SourcesReleased); v != 1 {
		t.Errorf("released sources = %v, expected 1", v)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	// None of these may panic.
	r.Operation("play", nil)
	r.Notification("success")
	r.SetCounts(1, 1)
	r.SourceReleased()
}
