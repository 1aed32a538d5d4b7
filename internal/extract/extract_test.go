package extract

import (
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	content := "Base salary of $180,000 per year."
	got, err := Extract("offer.txt", "text/plain", []byte(content))
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	if got != content {
		t.Fatalf("expected %q, got %q", content, got)
	}
}

func TestExtractTextBySuffixWhenTypeMissing(t *testing.T) {
	got, err := Extract("notes.txt", "", []byte("hello"))
	if err != nil {
		t.Fatalf("extract by suffix: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestExtractEmptyFileFails(t *testing.T) {
	if _, err := Extract("offer.txt", "text/plain", nil); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestExtractInvalidUTF8Fails(t *testing.T) {
	if _, err := Extract("offer.txt", "text/plain", []byte{0xff, 0xfe, 0xfd}); err == nil {
		t.Fatalf("expected error for invalid utf-8")
	}
}

func TestExtractUnsupportedTypeFails(t *testing.T) {
	_, err := Extract("offer.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("x"))
	if err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractCorruptPDFFails(t *testing.T) {
	if _, err := Extract("offer.pdf", "application/pdf", []byte("%PDF-1.4 garbage")); err == nil {
		t.Fatalf("expected error for corrupt pdf")
	}
}

func TestSimulatedContentByType(t *testing.T) {
	offer := SimulatedContent("offer", "offer.pdf")
	if !strings.Contains(offer, "Base Salary: $150,000") {
		t.Fatalf("offer placeholder missing salary line")
	}
	if !strings.Contains(offer, "Non-compete period: 12 months") {
		t.Fatalf("offer placeholder missing non-compete line")
	}
	jd := SimulatedContent("jd", "jd.pdf")
	if !strings.Contains(jd, "JOB DESCRIPTION") {
		t.Fatalf("jd placeholder missing header")
	}
	other := SimulatedContent("application/pdf", "contract.pdf")
	if !strings.Contains(other, "contract.pdf") {
		t.Fatalf("default placeholder should name the file")
	}
}
