package browser

import (
	"errors"
	"testing"
)

func TestIsSafeExternalURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "https://trips.example/ana", want: true},
		{in: "HTTP://trips.example", want: true},
		{in: "javascript:alert(1)", want: false},
		{in: "file:///etc/passwd", want: false},
		{in: "/relative/path", want: false},
		{in: "%zz", want: false},
	}
	for _, tc := range tests {
		if got := IsSafeExternalURL(tc.in); got != tc.want {
			t.Fatalf("IsSafeExternalURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOpen_RejectsUnsafe(t *testing.T) {
	if err := Open("file:///etc/passwd"); !errors.Is(err, ErrUnsafeURL) {
		t.Fatalf("expected ErrUnsafeURL, got %v", err)
	}
}

func TestCommandPerPlatform(t *testing.T) {
	tests := map[string]string{"darwin": "open", "windows": "rundll32", "linux": "xdg-open", "freebsd": "xdg-open"}
	for goos, want := range tests {
		cmd := command(goos, "https://x.test")
		if len(cmd.Args) == 0 || cmd.Args[0] != want {
			t.Fatalf("%s: unexpected command %v", goos, cmd.Args)
		}
		if cmd.Args[len(cmd.Args)-1] != "https://x.test" {
			t.Fatalf("%s: url must be the last argument: %v", goos, cmd.Args)
		}
	}
}
