package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/CrestNiraj12/tripshare/domain"
)

func signedInModel(t *testing.T, likes ...domain.TripLike) (Model, *fixture) {
	t.Helper()
	m, f := newTestModel(makeTrips(3), likes...)
	m, cmd := m.Update(SessionChangedMsg{User: user("u1")})
	m = settle(m, batch(m.Init(), cmd))
	return m, f
}

func TestLike_OptimisticThenConfirmed(t *testing.T) {
	m, f := signedInModel(t)

	m, cmd := m.Update(keyMsg("l"))
	if !m.isLiked("t0") || m.likesCount(m.Trips()[0]) != 1 {
		t.Fatalf("expected optimistic like with bumped count")
	}
	if !strings.Contains(m.View(), "saving...") {
		t.Fatalf("expected pending marker")
	}

	m = settle(m, cmd)
	if !m.view.IsLiked("t0") || len(m.overlay) != 0 || len(m.pending) != 0 {
		t.Fatalf("stored likes should now hold the like, overlay=%v pending=%v", m.overlay, m.pending)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != "u1:t0:true" {
		t.Fatalf("expected like change notification, got %v", f.notifier.events)
	}
}

func TestUnlike_UsesStoredLikeID(t *testing.T) {
	m, f := signedInModel(t, domain.TripLike{ID: "l-9", LikerID: "u1", TripID: "t0"})
	if !m.isLiked("t0") {
		t.Fatalf("precondition: t0 liked")
	}

	m, cmd := m.Update(keyMsg("l"))
	if m.isLiked("t0") {
		t.Fatalf("expected optimistic unlike")
	}
	m = settle(m, cmd)
	if m.isLiked("t0") || f.likes.calls[0] != "unlike:l-9" {
		t.Fatalf("expected unlike by record id, calls=%v", f.likes.calls)
	}
}

func TestLike_FailureRollsBack(t *testing.T) {
	m, f := signedInModel(t)
	f.likes.err = errors.New("offline")

	m, cmd := m.Update(keyMsg("l"))
	m = settle(m, cmd)
	if m.isLiked("t0") {
		t.Fatalf("failed like must roll back")
	}
	if !strings.Contains(m.notice, "offline") {
		t.Fatalf("expected failure notice, got %q", m.notice)
	}
	if len(f.notifier.events) != 0 {
		t.Fatalf("failed like must not notify")
	}
}

func TestLike_IgnoresRepeatWhilePending(t *testing.T) {
	m, f := signedInModel(t)
	m, first := m.Update(keyMsg("l"))
	m, second := m.Update(keyMsg("l"))
	if second != nil {
		t.Fatalf("second toggle must wait for the first")
	}
	m = settle(m, first)
	if len(f.likes.calls) != 1 || !m.isLiked("t0") {
		t.Fatalf("expected a single like call, got %v", f.likes.calls)
	}
}

func TestLike_AnonymousShowsLoginHint(t *testing.T) {
	m, f := newTestModel(makeTrips(2))
	m = settle(m, m.Init())

	m, cmd := m.Update(keyMsg("l"))
	if cmd != nil || len(f.likes.calls) != 0 {
		t.Fatalf("anonymous like must not reach the backend")
	}
	if m.notice != loginHint || !strings.Contains(m.View(), "tripshare login") {
		t.Fatalf("expected login hint, got %q", m.notice)
	}
}

func TestLikeResult_AfterCloseIgnored(t *testing.T) {
	m, _ := signedInModel(t)
	m, _ = m.Update(keyMsg("l"))
	m.Close()
	m, cmd := m.Update(LikeResultMsg{TripID: "t0", Liked: true})
	if cmd != nil {
		t.Fatalf("no follow-up work after close")
	}
}

func TestLikeResult_AttributedToUserWhoLiked(t *testing.T) {
	m, f := signedInModel(t)
	m, likeCmd := m.Update(keyMsg("l"))

	m, cmd := m.Update(SessionChangedMsg{User: user("u2")})
	m = settle(m, cmd)

	m = settle(m, likeCmd)
	if len(f.notifier.events) != 1 || f.notifier.events[0] != "u1:t0:true" {
		t.Fatalf("change must be published for the liker, got %v", f.notifier.events)
	}
	if m.isLiked("t0") || len(m.pending) != 0 || len(m.overlay) != 0 {
		t.Fatalf("u1's like must not leak into u2's view, overlay=%v pending=%v", m.overlay, m.pending)
	}
}

func TestLikeResult_FailureAfterSessionChangeKeepsNewState(t *testing.T) {
	m, f := signedInModel(t)
	f.likes.err = errors.New("offline")
	m, likeCmd := m.Update(keyMsg("l"))
	results := run(likeCmd)
	f.likes.err = nil

	m, cmd := m.Update(SessionChangedMsg{User: user("u2")})
	m = settle(m, cmd)
	m, _ = m.Update(keyMsg("l"))

	for _, msg := range results {
		m, _ = m.Update(msg)
	}
	if !m.pending["t0"] || !m.isLiked("t0") {
		t.Fatalf("u1's failure must not roll back u2's pending like")
	}
	if m.notice != "" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}
