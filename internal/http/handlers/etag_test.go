package handlers

import "testing"

func TestIfNoneMatchMatches(t *testing.T) {
	const etag = `"abc"`

	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"zzz", "abc"`, true},
		{"*", true},
		{`"zzz"`, false},
	}
	for _, tt := range tests {
		if got := ifNoneMatchMatches(tt.header, etag); got != tt.want {
			t.Fatalf("ifNoneMatchMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestBuildETag_StableAndQuoted(t *testing.T) {
	a := buildETag([]byte(`{"events":[]}`))
	b := buildETag([]byte(`{"events":[]}`))
	c := buildETag([]byte(`{"events":[1]}`))

	if a != b || a == c {
		t.Fatalf("etag must depend only on the body: %s %s %s", a, b, c)
	}
	if len(a) != 34 || a[0] != '"' || a[len(a)-1] != '"' {
		t.Fatalf("unexpected etag format %s", a)
	}
}
