package s3

import (
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "user/file.pdf", "user/file.pdf"},
		{"simple prefix", "documents", "user/file.pdf", "documents/user/file.pdf"},
		{"prefix with slashes", "/documents/", "user/file.pdf", "documents/user/file.pdf"},
		{"key with leading slash", "documents", "/user/file.pdf", "documents/user/file.pdf"},
		{"empty key", "documents", "", "documents"},
		{"both empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := applyPrefix(tc.prefix, tc.key); got != tc.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix("  /documents/ "); got != "documents" {
		t.Fatalf("normalizePrefix = %q", got)
	}
	if got := normalizePrefix(""); got != "" {
		t.Fatalf("normalizePrefix empty = %q", got)
	}
}

func TestPublicURLEscapesSegments(t *testing.T) {
	store := &Store{bucket: "my-bucket", region: "us-west-2"}

	got := store.publicURL("documents/userhash/1700_ab cd.pdf")
	want := "https://my-bucket.s3.us-west-2.amazonaws.com/documents/userhash/1700_ab%20cd.pdf"
	if got != want {
		t.Fatalf("publicURL = %q, want %q", got, want)
	}
}

func TestPublicURLDefaultsRegion(t *testing.T) {
	store := &Store{bucket: "my-bucket"}

	got := store.publicURL("k.pdf")
	if !strings.Contains(got, ".s3.us-east-1.amazonaws.com/") {
		t.Fatalf("expected default region in %q", got)
	}
}

func TestCountingReader(t *testing.T) {
	counter := &countingReader{r: strings.NewReader("twelve bytes")}
	buf := make([]byte, 4)
	total := 0
	for {
		n, err := counter.Read(buf)
		total += n
		if err != nil {
			break
		}
	}
	if counter.n != int64(total) || counter.n != int64(len("twelve bytes")) {
		t.Fatalf("counted %d, read %d", counter.n, total)
	}
}
