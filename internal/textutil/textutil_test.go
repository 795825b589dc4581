package textutil

import "testing"

func TestHumanSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tc := range cases {
		if got := HumanSize(tc.size); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"report.pdf", "Setup 1.2.exe", ".hidden", "weird name (1).zip"}
	for _, name := range valid {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("ValidateFilename(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", "   ", "a/b.pdf", `a\b.pdf`, ".", "..", "bad\x00name"}
	for _, name := range invalid {
		if err := ValidateFilename(name); err == nil {
			t.Errorf("ValidateFilename(%q) = nil, want error", name)
		}
	}
}

func TestSplitExt(t *testing.T) {
	cases := []struct {
		name string
		stem string
		ext  string
	}{
		{"archive.zip", "archive", ".zip"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
	}
	for _, tc := range cases {
		stem, ext := SplitExt(tc.name)
		if stem != tc.stem || ext != tc.ext {
			t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tc.name, stem, ext, tc.stem, tc.ext)
		}
	}
}
