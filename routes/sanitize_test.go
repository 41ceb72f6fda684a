package routes

import "testing"

func TestSanitizeFilenameReplacesIllegalChars(t *testing.T) {
	got := sanitizeFilename(`a/b\c?d*e<f>g:h|i"j k`)
	want := "a_b_c_d_e_f_g_h_i_j_k"
	if got != want {
		t.Fatalf("sanitizeFilename = %q, want %q", got, want)
	}
}

func TestSanitizeFilenameRejectsAllDots(t *testing.T) {
	if got := sanitizeFilename(".."); got != "_" {
		t.Fatalf("sanitizeFilename(\"..\") = %q, want %q", got, "_")
	}
}

func TestSanitizeFilenameRejectsWindowsReserved(t *testing.T) {
	if got := sanitizeFilename("con"); got != "_con" {
		t.Fatalf("sanitizeFilename(\"con\") = %q, want %q", got, "_con")
	}
	if got := sanitizeFilename("CON"); got != "_CON" {
		t.Fatalf("sanitizeFilename(\"CON\") = %q, want %q", got, "_CON")
	}
}

func TestSanitizeFilenameTrimsTrailingDotsAndSpaces(t *testing.T) {
	if got := sanitizeFilename("name.. "); got != "name" {
		t.Fatalf("sanitizeFilename(\"name.. \") = %q, want %q", got, "name")
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 250; i++ {
		long += "a"
	}
	got := sanitizeFilename(long)
	if len(got) != maxSanitizedLength {
		t.Fatalf("len(sanitizeFilename(long)) = %d, want %d", len(got), maxSanitizedLength)
	}
}

func TestSanitizeFilenameReplacesControlChars(t *testing.T) {
	got := sanitizeFilename("a\x01b\x7fc")
	if got != "a_b_c" {
		t.Fatalf("sanitizeFilename with control chars = %q, want %q", got, "a_b_c")
	}
}
