package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetRenderState clears globals between tests to avoid cross-test interference.
func resetRenderState() {
	globalVars = nil
	templateDir = ""
	embedTemplate = nil
}

// TestRenderHTML_EmbeddedOnly verifies that when no templateDir is configured,
// RenderHTML uses embedded templates successfully.
func TestRenderHTML_EmbeddedOnly(t *testing.T) {
	resetRenderState()
	if err := Initialize(map[string]interface{}{"siteName": "Embedded"}, ""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	out, err := RenderHTML("mail/otp-code.html", map[string]interface{}{"otpCode": "123456", "expireMinutes": 10})
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if !strings.Contains(out, "123456") {
		t.Fatalf("expected rendered output to contain the code, got %q", out)
	}
}

// TestRenderHTML_ExtensionOptional verifies the .html suffix may be omitted.
func TestRenderHTML_ExtensionOptional(t *testing.T) {
	resetRenderState()
	if err := Initialize(nil, ""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	out, err := RenderHTML("mail/verify-email", map[string]interface{}{"verifyURL": "https://example.com/v?token=x", "expireHours": 24})
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if !strings.Contains(out, "https://example.com/v?token=x") {
		t.Fatalf("expected rendered output to contain the link, got %q", out)
	}
}

// TestRenderHTML_DirOverridesEmbedded verifies that a valid template in the
// configured directory overrides the embedded one.
func TestRenderHTML_DirOverridesEmbedded(t *testing.T) {
	resetRenderState()
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "mail")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	content := "OVERRIDE_OTP_CODE"
	path := filepath.Join(subDir, "otp-code.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp template: %v", err)
	}

	if err := Initialize(map[string]interface{}{}, tmpDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	out, err := RenderHTML("mail/otp-code.html", nil)
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if out != content {
		t.Fatalf("expected overridden content %q, got %q", content, out)
	}
}

// TestRenderHTML_FallbackOnDiskFailure ensures that when the disk template is
// unreadable or invalid, RenderHTML falls back to embedded templates.
func TestRenderHTML_FallbackOnDiskFailure(t *testing.T) {
	resetRenderState()
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "mail")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	broken := "{{ ." // invalid Go template syntax
	path := filepath.Join(subDir, "otp-code.html")
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("failed to write broken temp template: %v", err)
	}

	if err := Initialize(map[string]interface{}{}, tmpDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	out, err := RenderHTML("mail/otp-code.html", map[string]interface{}{"otpCode": "654321", "expireMinutes": 10})
	if err != nil {
		t.Fatalf("RenderHTML should have fallen back to embedded template, got error: %v", err)
	}
	if !strings.Contains(out, "654321") {
		t.Fatalf("expected embedded fallback output, got %q", out)
	}
}

// TestInitialize_MissingDir rejects a template directory that does not exist.
func TestInitialize_MissingDir(t *testing.T) {
	resetRenderState()
	if err := Initialize(nil, "/definitely/not/a/dir"); err == nil {
		t.Fatalf("expected Initialize to fail on a missing directory")
	}
}
