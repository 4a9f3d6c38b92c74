package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ListenAddr != ":8000" || cfg.MaxAnswers != 100 || cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CheckQuestions {
		t.Fatalf("question checking must be off unless configured")
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
storage_dir: /tmp/subs
check_questions: true
max_answers: 40
questions:
  - text: "What is the revenue?"
    kind: number
  - text: "Who is the CEO?"
    kind: name
`)
	t.Setenv("MAX_ANSWERS", "25")
	t.Setenv("TSA_URL", "http://tsa.local/tsr")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ListenAddr != ":9000" || cfg.StorageDir != "/tmp/subs" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.MaxAnswers != 25 {
		t.Fatalf("env override not applied, got %d", cfg.MaxAnswers)
	}
	if cfg.TSAURL != "http://tsa.local/tsr" {
		t.Fatalf("env override not applied, got %q", cfg.TSAURL)
	}
	if len(cfg.Questions) != 2 || cfg.Questions[1].Kind != domain.KindName {
		t.Fatalf("questions not loaded: %+v", cfg.Questions)
	}
}

func TestLoadRejectsCheckWithoutQuestions(t *testing.T) {
	path := writeConfig(t, "check_questions: true\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error when checking is enabled without questions")
	}
}

func TestLoadRejectsNonPositiveLimits(t *testing.T) {
	path := writeConfig(t, "max_answers: 0\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for max_answers 0")
	}
}
