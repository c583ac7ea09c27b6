package document

import (
	"strings"
	"testing"
)

func TestPage(t *testing.T) {
	page := Page(`<title>Counter</title>`, `<p>5</p>`)

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Errorf("page should start with doctype, got: %q", page[:20])
	}

	expected := []string{
		"<title>Counter</title>",
		"<script>fetch('/__dev').catch(() => location.reload())</script>",
		"<body>\n    <p>5</p>\n  </body>",
	}
	for _, s := range expected {
		if !strings.Contains(page, s) {
			t.Errorf("page missing %q\nGot: %s", s, page)
		}
	}

	if strings.Index(page, "<title>") > strings.Index(page, "<script>") {
		t.Error("caller head markup should come before the liveness script")
	}
}

func TestPage_NoPlaceholdersLeft(t *testing.T) {
	page := Page("", "")
	if strings.Contains(page, headPlaceholder) || strings.Contains(page, bodyPlaceholder) {
		t.Errorf("placeholders should be replaced, got: %s", page)
	}
}

func TestPage_BodyNotReinterpreted(t *testing.T) {
	// a body that happens to contain the head placeholder must stay literal
	page := Page("<meta name=x>", "{{.Head}}")
	if strings.Count(page, "<meta name=x>") != 1 {
		t.Errorf("head should be inserted exactly once, got: %s", page)
	}
}

func TestPage_RootIsVisible(t *testing.T) {
	page := Page("", "<p>x</p>")

	if !strings.Contains(page, `<html lang="en">`) {
		t.Errorf("page should open with a visible <html lang=\"en\">, got: %s", page)
	}
	if strings.Contains(page, "hidden") {
		t.Errorf("page shell must not hide its content, got: %s", page)
	}
}
