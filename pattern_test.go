package tabfs

import "testing"

func TestCompilePatternLiteral(t *testing.T) {
	p := compilePattern("/runtime/manifest.json")
	if _, ok := p.match("/runtime/manifest.json"); !ok {
		t.Fatalf("expected literal pattern to match its own path")
	}
	if _, ok := p.match("/runtime/other.json"); ok {
		t.Fatalf("did not expect literal pattern to match a different path")
	}
}

func TestCompilePatternIntVar(t *testing.T) {
	p := compilePattern("/tabs/by-id/#TAB_ID")
	bindings, ok := p.match("/tabs/by-id/42")
	if !ok {
		t.Fatalf("expected pattern to match")
	}
	id, ok := bindings["tabId"].(int64)
	if !ok || id != 42 {
		t.Fatalf("bindings[tabId] = %#v, want int64(42)", bindings["tabId"])
	}
	if _, ok := p.match("/tabs/by-id/not-a-number"); ok {
		t.Fatalf("did not expect a non-numeric segment to satisfy a # variable")
	}
}

func TestCompilePatternStringVar(t *testing.T) {
	p := compilePattern("/tabs/by-title/:TITLE")
	bindings, ok := p.match("/tabs/by-title/hello-world")
	if !ok {
		t.Fatalf("expected pattern to match")
	}
	if bindings["title"] != "hello-world" {
		t.Fatalf("bindings[title] = %#v, want %q", bindings["title"], "hello-world")
	}
}

func TestCompilePatternMultipleVars(t *testing.T) {
	p := compilePattern("/tabs/by-id/#TAB_ID/debugger/scripts/#SCRIPT_ID")
	bindings, ok := p.match("/tabs/by-id/7/debugger/scripts/99")
	if !ok {
		t.Fatalf("expected pattern to match")
	}
	if bindings["tabId"] != int64(7) || bindings["scriptId"] != int64(99) {
		t.Fatalf("bindings = %#v, want tabId=7 scriptId=99", bindings)
	}
}

func TestCanonicalizeVarName(t *testing.T) {
	cases := map[string]string{
		"TAB_ID":     "tabId",
		"ID":         "id",
		"SCRIPT_URL": "scriptUrl",
	}
	for in, want := range cases {
		if got := canonicalizeVarName(in); got != want {
			t.Fatalf("canonicalizeVarName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPatternDoesNotCrossSlash(t *testing.T) {
	p := compilePattern("/tabs/by-title/:TITLE")
	if _, ok := p.match("/tabs/by-title/a/b"); ok {
		t.Fatalf("did not expect a string variable to match across a slash")
	}
}
