package routepath

import "testing"

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "root", input: "/", want: "/"},
		{name: "empty string", input: "", want: "/"},
		{name: "no leading slash", input: "devices", want: "/devices"},
		{name: "collapse slashes", input: "/devices//group", want: "/devices/group"},
		{name: "single dot", input: "/releases/./rel-1", want: "/releases/rel-1"},
		{name: "double dot", input: "/releases/rel-1/../rel-2", want: "/releases/rel-2"},
		{name: "trailing slash", input: "/auditlogs/", want: "/auditlogs"},
		{name: "escaped segment kept", input: "/releases/rel%2042", want: "/releases/rel%2042"},
		{name: "backslash", input: "/devices\\x", wantErr: ErrBackslashInPath},
		{name: "nul byte", input: "/devices%00", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/releases/%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/releases/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if err != tt.wantErr {
				t.Fatalf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustCanonicalize(t *testing.T) {
	if got := MustCanonicalize("/devices//"); got != "/devices" {
		t.Errorf("MustCanonicalize = %q, want /devices", got)
	}
	if got := MustCanonicalize("/../x"); got != "/../x" {
		t.Errorf("MustCanonicalize should return rejected input unchanged, got %q", got)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"/releases", []string{"rel-42"}, "/releases/rel-42"},
		{"/releases/", []string{"rel-42"}, "/releases/rel-42"},
		{"/releases", []string{""}, "/releases"},
		{"/releases", nil, "/releases"},
		{"/", []string{"rel-42"}, "/rel-42"},
		{"/", nil, "/"},
		{"/releases", []string{"my release"}, "/releases/my%20release"},
		{"/releases", []string{"a/b"}, "/releases/a%2Fb"},
		{"/releases", []string{"."}, "/releases/%2E"},
		{"/releases", []string{".."}, "/releases/%2E%2E"},
		{"/releases", []string{"..."}, "/releases/..."},
		{"/releases", []string{"v1.0"}, "/releases/v1.0"},
	}
	for _, tt := range tests {
		if got := Join(tt.base, tt.segments...); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestJoinDotSegmentsSurviveCanonicalize(t *testing.T) {
	for _, name := range []string{".", "..", "v1.0"} {
		t.Run(name, func(t *testing.T) {
			joined := Join("/releases", name)
			canonical, err := Canonicalize(joined)
			if err != nil {
				t.Fatalf("Canonicalize(%q) error = %v", joined, err)
			}
			if canonical != joined {
				t.Errorf("Canonicalize(%q) = %q, want unchanged", joined, canonical)
			}
			got, ok := Segment(canonical, "/releases")
			if !ok || got != name {
				t.Errorf("Segment(%q) = %q, %v, want %q, true", canonical, got, ok, name)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		path   string
		base   string
		want   string
		wantOK bool
	}{
		{"/releases/rel-42", "/releases", "rel-42", true},
		{"/releases/rel-42/", "/releases", "rel-42", true},
		{"/releases/rel-42/artifacts", "/releases", "rel-42", true},
		{"/releases/my%20release", "/releases", "my release", true},
		{"/releases/a%2Fb", "/releases", "a/b", true},
		{"/releases", "/releases", "", false},
		{"/releases/", "/releases", "", false},
		{"/releasesx/rel", "/releases", "", false},
		{"/devices/abc", "/releases", "", false},
		{"/rel-1", "/", "rel-1", true},
	}
	for _, tt := range tests {
		got, ok := Segment(tt.path, tt.base)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Segment(%q, %q) = (%q, %v), want (%q, %v)", tt.path, tt.base, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input     string
		wantPath  string
		wantQuery string
	}{
		{"/devices", "/devices", ""},
		{"/devices?page=2", "/devices", "page=2"},
		{"/devices?page=2#top", "/devices", "page=2"},
		{"/devices#top", "/devices", ""},
		{"?page=2", "", "page=2"},
	}
	for _, tt := range tests {
		p, q := Split(tt.input)
		if p != tt.wantPath || q != tt.wantQuery {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.input, p, q, tt.wantPath, tt.wantQuery)
		}
	}
}

func TestValidateNavPath(t *testing.T) {
	valid := []string{"/", "/devices", "/releases/rel-1"}
	for _, p := range valid {
		if err := ValidateNavPath(p); err != nil {
			t.Errorf("ValidateNavPath(%q) = %v, want nil", p, err)
		}
	}
	invalid := []string{"", "devices", "//evil.example", "http://evil.example", "https://evil.example/x"}
	for _, p := range invalid {
		if err := ValidateNavPath(p); err != ErrInvalidPath {
			t.Errorf("ValidateNavPath(%q) = %v, want ErrInvalidPath", p, err)
		}
	}
}
