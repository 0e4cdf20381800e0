package contextpanel

import (
	"path/filepath"
	"strings"
	"testing"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/ui/components/testutils"
)

func TestPanel_NoDocument(t *testing.T) {
	p := New()
	p.SetSize(40, 0)

	view := testutils.Plain(p.View("upload widget"))
	if !strings.Contains(view, "Research Context") {
		t.Error("Expected Research Context title")
	}
	if !strings.Contains(view, "upload widget") {
		t.Error("Expected upload widget content")
	}
	if strings.Contains(view, "Active Document") {
		t.Error("Expected no document card before an upload")
	}
	for _, c := range Capabilities {
		if !strings.Contains(view, c) {
			t.Errorf("Expected capability %q", c)
		}
	}
}

func TestPanel_ActiveDocument(t *testing.T) {
	p := New()
	p.SetSize(44, 0)
	p.SetDocument(agentapi.UploadResult{Filename: "attention.pdf", TextLength: 40213})

	view := testutils.Plain(p.View(""))
	for _, want := range []string{"Active Document", "attention.pdf", "40213 chars", "Indexed"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}

	p.ClearDocument()
	if strings.Contains(testutils.Plain(p.View("")), "Active Document") {
		t.Error("Expected card removed after ClearDocument")
	}
}

func TestDocumentCard_NotIndexed(t *testing.T) {
	warning := "Document uploaded but not indexed (quota exceeded)."
	card := testutils.Plain(DocumentCard(agentapi.UploadResult{
		Filename:   "survey.pdf",
		TextLength: 12,
		Status:     agentapi.IndexStatusQuotaExceeded,
		Warning:    &warning,
	}, 80))

	if !strings.Contains(card, "Not indexed") {
		t.Error("Expected not indexed badge")
	}
	if !strings.Contains(card, "quota exceeded") {
		t.Error("Expected backend warning")
	}
}

func TestDocumentCard_TruncatesLongName(t *testing.T) {
	card := testutils.Plain(DocumentCard(agentapi.UploadResult{
		Filename: "a-really-long-research-paper-file-name-that-does-not-fit.pdf",
	}, 30))

	for _, line := range strings.Split(card, "\n") {
		if w := len([]rune(line)); w > 30 {
			t.Errorf("Card line wider than 30: %q", line)
		}
	}
	if !strings.Contains(card, "...") {
		t.Error("Expected truncated file name")
	}
}

func TestPanel_FitsHeight(t *testing.T) {
	p := New()
	p.SetSize(40, 12)

	lines := strings.Split(p.View("a\nb"), "\n")
	if len(lines) != 12 {
		t.Errorf("Expected 12 lines, got %d", len(lines))
	}
}

func TestDocumentCard_ShowsShortenedPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	doc := agentapi.UploadResult{
		Filename: "attention.pdf",
		FilePath: filepath.Join(home, "papers", "nlp", "2017", "transformers", "attention.pdf"),
	}
	card := testutils.Plain(DocumentCard(doc, 30))

	if strings.Contains(card, home) {
		t.Errorf("Expected home directory replaced by ~, got %q", card)
	}
	if !strings.Contains(card, "~/../") {
		t.Errorf("Expected shortened path, got %q", card)
	}
	for _, line := range strings.Split(card, "\n") {
		if w := len([]rune(line)); w > 30 {
			t.Errorf("Card line wider than 30: %q", line)
		}
	}

	if strings.Contains(testutils.Plain(DocumentCard(agentapi.UploadResult{Filename: "x.pdf"}, 30)), "~") {
		t.Error("Expected no path line without a file path")
	}
}
