package shared

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogging(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "app", "goals").Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "app=goals") {
			t.Errorf("unexpected log output: %q", out)
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "brain.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		tests := []struct {
			in   string
			want log.Level
			err  bool
		}{
			{"", log.InfoLevel, false},
			{"DEBUG", log.DebugLevel, false},
			{" warn ", log.WarnLevel, false},
			{"loud", log.InfoLevel, true},
		}
		for _, tt := range tests {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.err {
				t.Errorf("ParseLogLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})
}

func TestHelpers(t *testing.T) {
	t.Run("GenerateID is a UUID", func(t *testing.T) {
		id := GenerateID()
		if !IsUUID(id) {
			t.Errorf("expected %q to be a UUID", id)
		}
		if IsUUID("not-a-uuid") {
			t.Error("expected not-a-uuid to be rejected")
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		if got := Truncate("short", 10); got != "short" {
			t.Errorf("expected unchanged string, got %q", got)
		}
		if got := Truncate("a longer title", 6); got != "a lon…" {
			t.Errorf("expected a lon…, got %q", got)
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := browserCommand(tt.goos, "http://127.0.0.1/print/1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.want {
				t.Errorf("expected %s, got %s", tt.want, name)
			}
			if args[len(args)-1] != "http://127.0.0.1/print/1" {
				t.Errorf("expected target as last arg, got %v", args)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		if _, _, err := browserCommand("plan9", "x"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}

func TestDesktopNotifier(t *testing.T) {
	type sent struct{ title, body string }

	newNotifier := func(goos string, bus bool, installed bool) (*DesktopNotifier, *[]sent) {
		var calls []sent
		n := &DesktopNotifier{
			goos: goos,
			getenv: func(key string) string {
				if bus && key == "DBUS_SESSION_BUS_ADDRESS" {
					return "unix:path=/run/user/1000/bus"
				}
				return ""
			},
			lookPath: func(name string) (string, error) {
				if installed {
					return "/usr/bin/" + name, nil
				}
				return "", errors.New("not found")
			},
			send: func(title, body string) error {
				calls = append(calls, sent{title, body})
				return nil
			},
		}
		return n, &calls
	}

	t.Run("starts undecided", func(t *testing.T) {
		n, _ := newNotifier("linux", true, true)
		if n.Permission() != PermissionDefault {
			t.Errorf("expected default permission, got %s", n.Permission())
		}
	})

	t.Run("granted with a session bus", func(t *testing.T) {
		n, calls := newNotifier("linux", true, false)
		p, err := n.RequestPermission(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != PermissionGranted {
			t.Fatalf("expected granted, got %s", p)
		}

		if err := n.Notify(context.Background(), "Goal Due!", `Your goal "Run" is due now.`); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
		if len(*calls) != 1 || (*calls)[0].title != "Goal Due!" {
			t.Errorf("expected one notification, got %v", *calls)
		}
	})

	t.Run("granted with notify-send and no bus", func(t *testing.T) {
		n, _ := newNotifier("freebsd", false, true)
		if p, _ := n.RequestPermission(context.Background()); p != PermissionGranted {
			t.Errorf("expected granted, got %s", p)
		}
	})

	t.Run("granted on windows and darwin", func(t *testing.T) {
		for _, goos := range []string{"windows", "darwin"} {
			n, _ := newNotifier(goos, false, false)
			if p, err := n.RequestPermission(context.Background()); p != PermissionGranted || err != nil {
				t.Errorf("%s: expected granted, got %s (%v)", goos, p, err)
			}
		}
	})

	t.Run("denied without a desktop session", func(t *testing.T) {
		n, calls := newNotifier("linux", false, false)
		p, _ := n.RequestPermission(context.Background())
		if p != PermissionDenied {
			t.Fatalf("expected denied, got %s", p)
		}
		if err := n.Notify(context.Background(), "t", "b"); !errors.Is(err, ErrNotificationsUnsupported) {
			t.Errorf("expected notify to fail without permission, got %v", err)
		}
		if len(*calls) != 0 {
			t.Errorf("expected no notifications, got %v", *calls)
		}
	})

	t.Run("decision is sticky", func(t *testing.T) {
		n, _ := newNotifier("linux", false, false)
		n.RequestPermission(context.Background())
		n.lookPath = func(string) (string, error) { return "/usr/bin/notify-send", nil }
		if p, _ := n.RequestPermission(context.Background()); p != PermissionDenied {
			t.Errorf("expected denied to stick, got %s", p)
		}
	})

	t.Run("send failure is wrapped", func(t *testing.T) {
		n, _ := newNotifier("darwin", false, false)
		n.send = func(string, string) error { return errors.New("no display") }
		n.RequestPermission(context.Background())

		err := n.Notify(context.Background(), "t", "b")
		if err == nil || !strings.Contains(err.Error(), "failed to send notification: no display") {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("cancelled context skips delivery", func(t *testing.T) {
		n, calls := newNotifier("darwin", false, false)
		n.RequestPermission(context.Background())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := n.Notify(ctx, "t", "b"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(*calls) != 0 {
			t.Error("expected no notification")
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		n, _ := newNotifier("plan9", true, true)
		if _, err := n.RequestPermission(context.Background()); !errors.Is(err, ErrNotificationsUnsupported) {
			t.Errorf("expected ErrNotificationsUnsupported, got %v", err)
		}
	})
}
