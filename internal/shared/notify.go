package shared

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/gen2brain/beeep"
)

// Permission mirrors the three notification permission states a desktop session can be in.
type Permission int

const (
	PermissionDefault Permission = iota // not yet decided
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Notifier delivers native desktop notifications.
type Notifier interface {
	// Permission reports the current permission without prompting.
	Permission() Permission
	// RequestPermission resolves a default permission to granted or denied. It is one-shot:
	// once decided, the stored answer is returned unchanged.
	RequestPermission(ctx context.Context) (Permission, error)
	// Notify shows a notification. Callers should check Permission first.
	Notify(ctx context.Context, title, body string) error
}

// DesktopNotifier delivers notifications through [beeep.Notify] and layers a one-shot permission decision on top.
type DesktopNotifier struct {
	mu         sync.Mutex
	permission Permission
	goos       string
	getenv     func(string) string
	lookPath   func(string) (string, error)
	send       func(title, body string) error
}

// NewDesktopNotifier creates a [DesktopNotifier] for the running platform with permission undecided.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		goos:     getRuntime(),
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// Permission implements [Notifier].
func (n *DesktopNotifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// RequestPermission implements [Notifier].
//
// Permission is granted when the session can display notifications and denied otherwise.
// Platforms beeep does not target return [ErrNotificationsUnsupported].
func (n *DesktopNotifier) RequestPermission(ctx context.Context) (Permission, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.permission != PermissionDefault {
		return n.permission, nil
	}

	ok, err := n.sessionAvailable()
	if err != nil {
		n.permission = PermissionDenied
		return n.permission, err
	}
	if ok {
		n.permission = PermissionGranted
	} else {
		n.permission = PermissionDenied
	}
	return n.permission, nil
}

// Notify implements [Notifier].
func (n *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	if p := n.Permission(); p != PermissionGranted {
		return fmt.Errorf("%w: permission %s", ErrNotificationsUnsupported, p)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.send(title, body); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// sessionAvailable reports whether a notification can reach the user. On unix desktops beeep talks to the
// session bus and falls back to notify-send, so one of the two must be present.
func (n *DesktopNotifier) sessionAvailable() (bool, error) {
	switch n.goos {
	case "darwin", "windows":
		return true, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if n.getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
			return true, nil
		}
		_, err := n.lookPath("notify-send")
		return err == nil, nil
	default:
		return false, fmt.Errorf("%w on %s", ErrNotificationsUnsupported, n.goos)
	}
}
