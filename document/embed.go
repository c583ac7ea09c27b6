// Package document provides the HTML page shell that rendered state is
// embedded into.
//
// The shell is embedded at compile time and carries a small script that
// polls the liveness path ("/__dev"). The server never answers that
// request, so the fetch only settles when the connection breaks, at which
// point the page reloads. Restarting the server therefore refreshes every
// open tab.
package document

import (
	"embed"
	"strings"
)

const (
	headPlaceholder = "{{.Head}}"
	bodyPlaceholder = "{{.Body}}"
)

// Assets is an embedded filesystem containing the page shell.
//
//	assets/
//	  page.html    - document with {{.Head}} and {{.Body}} placeholders
//
//go:embed assets/*
var Assets embed.FS

var shell = mustReadShell()

func mustReadShell() string {
	content, err := Assets.ReadFile("assets/page.html")
	if err != nil {
		panic("document: missing embedded page shell: " + err.Error())
	}
	return string(content)
}

// Page returns a complete HTML document with head inserted ahead of the
// liveness script and body inside <body>.
//
// Both values are inserted verbatim: head is caller-supplied markup and
// body is the output of the node renderer, which escapes text itself.
func Page(head, body string) string {
	return strings.NewReplacer(
		headPlaceholder, head,
		bodyPlaceholder, body,
	).Replace(shell)
}
