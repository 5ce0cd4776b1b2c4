package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("DEEPGRAM_API_KEY", "test-key")
	t.Setenv("FSTT_LLM_ENABLED", "true")
	t.Setenv("FSTT_CLIPBOARD_COPY_METHOD", "primary")

	services, err := Build(zerolog.Nop())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.History.Close()

	if services.Store == nil || services.Speech == nil {
		t.Fatal("expected assembled services")
	}

	snapshot := services.Store.Current()
	if snapshot.Phase != domain.PhaseIdle || snapshot.SessionID != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", snapshot)
	}
	if !snapshot.Settings.LLMEnabled {
		t.Fatal("expected llm enabled from environment default")
	}
	if snapshot.Settings.CopyMethod != domain.CopyMethodPrimary {
		t.Fatalf("unexpected copy method: %q", snapshot.Settings.CopyMethod)
	}
}

func TestBuildSeedsSettingsFromExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	first, err := Build(zerolog.Nop())
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	first.Store.Dispatch(domain.ToggleLLM{})
	wantLLM := first.Store.Current().Settings.LLMEnabled
	first.History.Close()

	second, err := Build(zerolog.Nop())
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	defer second.History.Close()

	if got := second.Store.Current().Settings.LLMEnabled; got != wantLLM {
		t.Fatalf("expected persisted llm setting %t, got %t", wantLLM, got)
	}
}
