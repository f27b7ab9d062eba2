package platform

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveDisplayEnv_UsesExistingEnv(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":99", "/tmp/should-not-be-used" },
		func(string) string { return ":88" },
	)
	defer restore()

	env := []string{
		"HOME=" + t.TempDir(),
		"DISPLAY=:7",
		"XAUTHORITY=/tmp/xauth-existing",
	}
	display, xauth, err := resolveDisplayEnv(env, Options{Display: ":1", XAuthority: "/tmp/cfg"})
	if err != nil {
		t.Fatalf("resolveDisplayEnv returned error: %v", err)
	}
	if display != ":7" {
		t.Fatalf("DISPLAY = %q, want %q", display, ":7")
	}
	if xauth != "/tmp/xauth-existing" {
		t.Fatalf("XAUTHORITY = %q, want %q", xauth, "/tmp/xauth-existing")
	}
}

func TestResolveDisplayEnv_UsesOptionsAndFallsBackToHomeXAuthority(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	home := t.TempDir()
	xauthPath := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauthPath, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	display, xauth, err := resolveDisplayEnv([]string{"HOME=" + home}, Options{Display: ":1"})
	if err != nil {
		t.Fatalf("resolveDisplayEnv returned error: %v", err)
	}
	if display != ":1" {
		t.Fatalf("DISPLAY = %q, want %q", display, ":1")
	}
	if xauth != xauthPath {
		t.Fatalf("XAUTHORITY = %q, want %q", xauth, xauthPath)
	}
}

func TestResolveDisplayEnv_UsesDetectedValues(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return ":5", "/tmp/xauth-detected" },
		func(string) string { return "" },
	)
	defer restore()

	display, xauth, err := resolveDisplayEnv([]string{"HOME=" + t.TempDir()}, Options{})
	if err != nil {
		t.Fatalf("resolveDisplayEnv returned error: %v", err)
	}
	if display != ":5" || xauth != "/tmp/xauth-detected" {
		t.Fatalf("got (%q, %q), want (%q, %q)", display, xauth, ":5", "/tmp/xauth-detected")
	}
}

func TestResolveDisplayEnv_FallsBackToSocket(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return ":3" },
	)
	defer restore()

	display, _, err := resolveDisplayEnv([]string{"HOME=" + t.TempDir()}, Options{})
	if err != nil {
		t.Fatalf("resolveDisplayEnv returned error: %v", err)
	}
	if display != ":3" {
		t.Fatalf("DISPLAY = %q, want %q", display, ":3")
	}
}

func TestResolveDisplayEnv_ReturnsClearErrorWhenDisplayUnavailable(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	_, _, err := resolveDisplayEnv([]string{"HOME=" + t.TempDir()}, Options{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no X11 display available") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDisplayEnv_SetsOnlyMissingValues(t *testing.T) {
	restore := stubDetectFns(
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)
	defer restore()

	origEnviron, origSetenv := environFn, setenvFn
	defer func() { environFn, setenvFn = origEnviron, origSetenv }()

	environFn = func() []string {
		return []string{"HOME=" + t.TempDir(), "XAUTHORITY=/tmp/xauth"}
	}
	set := map[string]string{}
	setenvFn = func(k, v string) error {
		set[k] = v
		return nil
	}

	if err := EnsureDisplayEnv(Options{Display: ":4"}); err != nil {
		t.Fatalf("EnsureDisplayEnv returned error: %v", err)
	}
	if set["DISPLAY"] != ":4" {
		t.Fatalf("DISPLAY set to %q, want %q", set["DISPLAY"], ":4")
	}
	if _, ok := set["XAUTHORITY"]; ok {
		t.Fatalf("XAUTHORITY should not be rewritten, got %q", set["XAUTHORITY"])
	}
}

func TestDetectDisplayFromSockets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"X0", "X2", "not-a-display"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if got := detectDisplayFromSockets(dir); got != ":2" {
		t.Fatalf("detectDisplayFromSockets = %q, want %q", got, ":2")
	}
}

func TestParseLoginctlSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := parseLoginctlSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("parseLoginctlSessions = %v, want [1 3]", got)
	}
}

func TestReadProcEnviron(t *testing.T) {
	orig := readFileFn
	defer func() { readFileFn = orig }()
	readFileFn = func(path string) ([]byte, error) {
		if path != filepath.Join("/proc", "42", "environ") {
			t.Fatalf("unexpected path %q", path)
		}
		return []byte("DISPLAY=:1\x00XAUTHORITY=/run/user/1000/gdm/Xauthority\x00JUNK\x00"), nil
	}

	env, err := readProcEnviron("42")
	if err != nil {
		t.Fatalf("readProcEnviron: %v", err)
	}
	if env["DISPLAY"] != ":1" || env["XAUTHORITY"] != "/run/user/1000/gdm/Xauthority" {
		t.Fatalf("unexpected env: %v", env)
	}
	if _, ok := env["JUNK"]; ok {
		t.Fatal("entries without '=' must be skipped")
	}
}

func TestCaptureRect_WrapsError(t *testing.T) {
	orig := captureFn
	defer func() { captureFn = orig }()
	captureFn = func(x, y, w, h int) (*image.RGBA, error) {
		return nil, errors.New("XGetImage failed")
	}

	_, err := captureRect(Rect{X: 10, Y: 20, Width: 30, Height: 40})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "30x40+10+20") || !strings.Contains(err.Error(), "XGetImage failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func stubDetectFns(
	detectSession func() (string, string),
	detectSocket func(string) string,
) func() {
	origSession := detectSessionX11EnvFn
	origSocket := detectDisplayFromSocketFn
	detectSessionX11EnvFn = detectSession
	detectDisplayFromSocketFn = detectSocket
	return func() {
		detectSessionX11EnvFn = origSession
		detectDisplayFromSocketFn = origSocket
	}
}
