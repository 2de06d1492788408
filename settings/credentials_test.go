package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if got := GetAPIKey("gemini"); got != "" {
		t.Fatalf("GetAPIKey on empty store = %q, want empty", got)
	}

	if err := SetAPIKey("gemini", "test-key-123456"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}
	if got := GetAPIKey("gemini"); got != "test-key-123456" {
		t.Fatalf("GetAPIKey() = %q, want test-key-123456", got)
	}

	// Upsert replaces the key.
	if err := SetAPIKey("gemini", "replacement-key"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}
	if got := GetAPIKey("gemini"); got != "replacement-key" {
		t.Fatalf("GetAPIKey() after upsert = %q", got)
	}

	if err := Remove("gemini"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if got := GetAPIKey("gemini"); got != "" {
		t.Fatalf("GetAPIKey() after Remove = %q, want empty", got)
	}

	// Removing an absent provider is a no-op.
	if err := Remove("gemini"); err != nil {
		t.Fatalf("Remove() of absent provider error: %v", err)
	}
}

func TestSaveFilePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	if err := SetAPIKey("openai", "sk-something"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	path := filepath.Join(dir, "aitranslate", "auth.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat auth.json: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("auth.json permissions = %o, want 0600", perm)
	}
	if FilePath() != path {
		t.Fatalf("FilePath() = %q, want %q", FilePath(), path)
	}
}

func TestLoadToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	authDir := filepath.Join(dir, "aitranslate")
	if err := os.MkdirAll(authDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(authDir, "auth.json"), []byte("{corrupt"), 0600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	store := Load()
	if len(store) != 0 {
		t.Fatalf("Load() of corrupt file = %v, want empty store", store)
	}
}

func TestSetAPIKeyPreservesBaseURL(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store := Store{"custom-openai": {Key: "old", BaseURL: "https://llm.internal/v1"}}
	if err := Save(store); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := SetAPIKey("custom-openai", "new"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	info := Load()["custom-openai"]
	if info == nil || info.Key != "new" || info.BaseURL != "https://llm.internal/v1" {
		t.Fatalf("entry = %#v, want new key with base URL preserved", info)
	}
}

func TestEnvVarForProvider(t *testing.T) {
	cases := map[string]string{
		"gemini":        "GEMINI_API_KEY",
		"openai":        "OPENAI_API_KEY",
		"custom-openai": "OPENAI_API_KEY",
		"unknown":       "",
	}
	for provider, want := range cases {
		if got := EnvVarForProvider(provider); got != want {
			t.Fatalf("EnvVarForProvider(%q) = %q, want %q", provider, got, want)
		}
	}
}

func TestResolveAPIKeyPriority(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")

	if err := SetAPIKey("gemini", "stored-key"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	if got := ResolveAPIKey("gemini", ""); got != "stored-key" {
		t.Fatalf("store fallback = %q, want stored-key", got)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	if got := ResolveAPIKey("gemini", ""); got != "env-key" {
		t.Fatalf("env should beat store, got %q", got)
	}

	if got := ResolveAPIKey("gemini", "flag-key"); got != "flag-key" {
		t.Fatalf("flag should beat env, got %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcdefghijkl", "sk-a...ijkl"},
	}
	for _, tc := range cases {
		if got := MaskKey(tc.in); got != tc.want {
			t.Fatalf("MaskKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
