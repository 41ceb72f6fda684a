package tabfs

import "testing"

func TestPathNames(t *testing.T) {
	cases := map[string][]string{
		"/a/b/c": {"a", "b", "c"},
		"a/b/":   {"a", "b"},
		"":       {},
		"/":      {},
	}
	for in, want := range cases {
		got := Path(in).Names()
		if len(got) != len(want) {
			t.Fatalf("Names(%q) = %v, want %v", in, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("Names(%q) = %v, want %v", in, got, want)
			}
		}
	}
}

func TestPathName(t *testing.T) {
	if got := Path("/a/b/c").Name(); got != "c" {
		t.Fatalf("Name() = %q, want %q", got, "c")
	}
	if got := Path("/").Name(); got != "" {
		t.Fatalf("Name() of root = %q, want empty", got)
	}
}

func TestPathParent(t *testing.T) {
	if got := Path("/a/b/c").Parent(); got != Path("a/b") {
		t.Fatalf("Parent() = %q, want %q", got, "a/b")
	}
	if got := Path("/a").Parent(); got != Path("") {
		t.Fatalf("Parent() of top-level = %q, want empty", got)
	}
}

func TestPathStringNormalizes(t *testing.T) {
	if got := Path("a/b/").String(); got != "/a/b" {
		t.Fatalf("String() = %q, want %q", got, "/a/b")
	}
	if got := Path("").String(); got != "/" {
		t.Fatalf("String() of empty = %q, want %q", got, "/")
	}
}

func TestPathChild(t *testing.T) {
	if got := Path("/").Child("tabs"); got != Path("/tabs") {
		t.Fatalf("Child() from root = %q, want %q", got, "/tabs")
	}
	if got := Path("/tabs").Child("by-id"); got != Path("/tabs/by-id") {
		t.Fatalf("Child() = %q, want %q", got, "/tabs/by-id")
	}
}

func TestPathTrimPrefix(t *testing.T) {
	got := Path("/tabs/by-id/1").TrimPrefix(Path("/tabs"))
	if got != Path("/by-id/1") {
		t.Fatalf("TrimPrefix() = %q, want %q", got, "/by-id/1")
	}
}

func TestPathAppleDoubleCompanion(t *testing.T) {
	if !Path("/tabs/._foo").isAppleDoubleCompanion() {
		t.Fatalf("expected ._foo to be detected as an AppleDouble companion")
	}
	if Path("/tabs/foo").isAppleDoubleCompanion() {
		t.Fatalf("did not expect foo to be detected as an AppleDouble companion")
	}
}
