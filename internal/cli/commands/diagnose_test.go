package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
)

func diagnose(t *testing.T, path string, opts *DiagnoseOptions) string {
	t.Helper()
	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), &buf, path, opts); err != nil {
		t.Fatalf("runDiagnose failed: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnose_GoodExport(t *testing.T) {
	export := writeFile(t, t.TempDir(), "chat.txt", sampleExport)

	out := diagnose(t, export, &DiagnoseOptions{})

	assertContains(t, out,
		"=== chatlens Export Diagnostics ===",
		"[PASS] Export File",
		"[PASS] Encoding",
		"[PASS] Header Format",
		"slash date, dash separator (3/3 sampled lines are headers)",
		"[PASS] Date Order",
		"[PASS] Messages",
		"3 usable message(s) from 2 participant(s)",
		"[PASS] System Messages",
		"0 errors",
		"Export looks good!",
	)
}

func TestDiagnose_MissingExport(t *testing.T) {
	out := diagnose(t, filepath.Join(t.TempDir(), "missing.txt"), &DiagnoseOptions{})

	assertContains(t, out, "[FAIL] Export File", "Export not found", "Fix the errors above")
	if strings.Contains(out, "Encoding") {
		t.Error("Checks should stop after a missing export")
	}
}

func TestDiagnose_Directory(t *testing.T) {
	out := diagnose(t, t.TempDir(), &DiagnoseOptions{})
	assertContains(t, out, "[FAIL] Export File", "Path is a directory")
}

func TestDiagnose_EmptyExport(t *testing.T) {
	export := writeFile(t, t.TempDir(), "empty.txt", "")

	out := diagnose(t, export, &DiagnoseOptions{})
	assertContains(t, out, "[FAIL] Export File", "Export is empty")
}

func TestDiagnose_NoHeaders(t *testing.T) {
	export := writeFile(t, t.TempDir(), "notes.txt", "this is not a chat export\njust some notes\n")

	out := diagnose(t, export, &DiagnoseOptions{})

	assertContains(t, out,
		"[FAIL] Header Format",
		"No message header found in the first 2 non-blank lines",
		"Line 1: this is not a chat export",
		"[FAIL] Messages",
		"Fix the errors above before running analysis.",
	)
	if strings.Contains(out, "Date Order") {
		t.Error("Date order should not be checked without a header format")
	}
}

func TestDiagnose_AmbiguousDates(t *testing.T) {
	export := writeFile(t, t.TempDir(), "chat.txt",
		"01/02/2023, 09:05 - Alice: hi\n01/02/2023, 09:06 - Bob: hello\n")

	out := diagnose(t, export, &DiagnoseOptions{})

	assertContains(t, out,
		"[WARN] Date Order",
		"Ambiguous dates: 2",
		"Export is usable but has warnings.",
	)
}

func TestDiagnose_DroppedLinesAndSystemShare(t *testing.T) {
	export := writeFile(t, t.TempDir(), "chat.txt", strings.Join([]string{
		"continued from an older export",
		"15/01/2023, 09:05 - Alice: This message was deleted",
		"15/01/2023, 09:06 - Bob: This message was deleted",
		"15/01/2023, 09:07 - Bob: hi",
	}, "\n")+"\n")

	out := diagnose(t, export, &DiagnoseOptions{})

	assertContains(t, out,
		"[WARN] Messages",
		"Dropped before first header: 1",
		"[WARN] System Messages",
		"2 of 3 message(s) are system notices (67%)",
	)
}

func TestDiagnose_InvalidUTF8(t *testing.T) {
	export := writeFile(t, t.TempDir(), "chat.txt",
		"15/01/2023, 09:05 - Alice: caf\xe9\n15/01/2023, 09:06 - Bob: ok\n")

	out := diagnose(t, export, &DiagnoseOptions{})
	assertContains(t, out, "[WARN] Encoding", "File is not valid UTF-8")
}

func TestDiagnose_BOMAndCRLFVerbose(t *testing.T) {
	export := writeFile(t, t.TempDir(), "chat.txt",
		"\ufeff15/01/2023, 09:05 - Alice: hi\r\n15/01/2023, 09:06 - Bob: hello\r\n")

	out := diagnose(t, export, &DiagnoseOptions{Verbose: true})

	assertContains(t, out,
		"[PASS] Encoding",
		"Starts with a byte order mark (ignored)",
		"Uses CRLF line endings",
		"[PASS] Header Format",
		`Pattern "slash date, dash separator": 2 header(s)`,
	)
}

func TestDiagnose_WithConfig(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	tmpDir := t.TempDir()
	export := writeFile(t, tmpDir, "chat.txt", sampleExport)
	configPath := writeFile(t, tmpDir, "chatlens.yaml", `
webhooks:
  - name: local
    url: `+hook.URL+`
  - name: secure
    url: https://example.invalid/hook
    token: abc
    trigger: never
`)

	out := diagnose(t, export, &DiagnoseOptions{ConfigPath: configPath})
	assertContains(t, out,
		"[PASS] Config File",
		"[WARN] Webhook: local",
		"Plain http endpoint without a token",
		"[PASS] Webhook: secure",
	)
	if strings.Contains(out, "Webhook Connectivity") {
		t.Error("Connectivity is only checked with --verbose")
	}
}

func TestDiagnose_WebhookConnectivity(t *testing.T) {
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer hook.Close()

	result := checkWebhookConnectivity(context.Background(), config.WebhookConfig{URL: hook.URL})
	if result.Status != "warning" || !strings.Contains(result.Message, "status 405") {
		t.Errorf("Unexpected result %+v", result)
	}

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ok.Close()

	result = checkWebhookConnectivity(context.Background(), config.WebhookConfig{URL: ok.URL})
	if result.Status != "ok" {
		t.Errorf("Expected ok, got %+v", result)
	}
}

func TestDiagnose_BadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	export := writeFile(t, tmpDir, "chat.txt", sampleExport)
	configPath := writeFile(t, tmpDir, "chatlens.yaml", "output:\n\tformat: json\n")

	out := diagnose(t, export, &DiagnoseOptions{ConfigPath: configPath})
	assertContains(t, out, "[FAIL] Config File", "Check YAML syntax", "--write-config")
}

func TestCheckDateOrder(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		status string
	}{
		{"no slash dates", []string{"2023-01-15 09:05 - Alice: hi"}, "ok"},
		{"day first", []string{"15/01/2023, 09:05 - Alice: hi"}, "ok"},
		{"month first", []string{"1/15/23, 9:05 AM - Alice: hi", "1/2/23, 9:05 AM - Bob: hi"}, "warning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection := detector.New().DetectFromLines(tt.lines)
			if got := checkDateOrder(detection).Status; got != tt.status {
				t.Errorf("status = %s, want %s", got, tt.status)
			}
		})
	}
}

func TestTrimPartialRune(t *testing.T) {
	full := []byte("caf\u00e9")
	if got := trimPartialRune(full); !bytes.Equal(got, full) {
		t.Errorf("Complete text should be kept, got %q", got)
	}
	cut := full[:len(full)-1]
	if got := trimPartialRune(cut); string(got) != "caf" {
		t.Errorf("Partial rune should be dropped, got %q", got)
	}
}
