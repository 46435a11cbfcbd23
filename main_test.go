package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"feed", "login", "logout", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("missing subcommand %q: %v", name, err)
		}
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--bogus"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	if err := root.Execute(); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), domain.AppTitle+" ") || !strings.Contains(out.String(), "commit:") {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}

func TestFeedCmd_NegativeLimit(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"feed", "--limit=-1"})
	root.SetOut(new(bytes.Buffer))
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--limit") {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestResolveVersionInfo(t *testing.T) {
	settings := buildSettingsMap([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2025-10-01T00:00:00Z"},
	})
	v, c, d := resolveVersionInfo("dev", "none", "unknown", "v1.2.3", settings)
	if v != "v1.2.3" || c != "0123456789ab" || d != "2025-10-01T00:00:00Z" {
		t.Fatalf("unexpected resolution: %s %s %s", v, c, d)
	}

	v, c, d = resolveVersionInfo("v9", "abc", "today", "(devel)", settings)
	if v != "v9" || c != "abc" || d != "today" {
		t.Fatalf("ldflags values must win: %s %s %s", v, c, d)
	}

	v, _, _ = resolveVersionInfo("dev", "none", "unknown", "(devel)", nil)
	if v != "dev" {
		t.Fatalf("devel module version must be ignored: %s", v)
	}
}

func readyView(trips []domain.Trip, likes ...domain.TripLike) core.View {
	var v core.View
	cycle := v.Begin()
	v.ItemsLoaded(cycle, trips)
	v.LikesLoaded(cycle, v.LikesGen(), core.NewLikedSet(likes))
	return v
}

func TestPrintFeed(t *testing.T) {
	trips := []domain.Trip{
		{ID: "t1", Title: "Lisbon", Destination: "Portugal", AuthorUsername: "ana", LikesCount: 2, Content: "\nTrams and tiles\nmore"},
		{ID: "t2", Title: "Oslo", LikesCount: 0},
		{ID: "t3", Title: "Kyoto"},
	}
	var out bytes.Buffer
	printFeed(&out, readyView(trips, domain.TripLike{ID: "l1", LikerID: "u1", TripID: "t1"}), 2)

	got := out.String()
	if !strings.Contains(got, "♥   2  Lisbon · Portugal (@ana)") {
		t.Fatalf("liked trip not rendered:\n%s", got)
	}
	if !strings.Contains(got, "      Trams and tiles") {
		t.Fatalf("summary line missing:\n%s", got)
	}
	if !strings.Contains(got, "♡   0  Oslo") || strings.Contains(got, "Kyoto") {
		t.Fatalf("limit not applied:\n%s", got)
	}
}

func TestPrintFeed_Empty(t *testing.T) {
	var out bytes.Buffer
	printFeed(&out, readyView(nil), 0)
	if !strings.Contains(out.String(), "No trips shared yet.") || !strings.Contains(out.String(), "Be the first to share your adventure!") {
		t.Fatalf("expected empty state, got %q", out.String())
	}
}
