package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Run("registry exact", func(t *testing.T) {
		got, ok := Lookup("en-GB")
		if !ok || got.Name != "English (UK)" || got.Flag != "🇬🇧" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("registry normalized", func(t *testing.T) {
		got, ok := Lookup("pt_br")
		if !ok || got.Name != "Portuguese (Brazil)" || got.Native != "Português (Brasil)" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("display data for region variants", func(t *testing.T) {
		got, ok := Lookup("fr_FR")
		if !ok || got.Name != "French (France)" {
			t.Fatalf("unexpected result: %#v", got)
		}
		if got.Flag != "🇫🇷" {
			t.Fatalf("flag = %q", got.Flag)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if got, ok := Lookup("xx_YY"); ok {
			t.Fatalf("xx_YY should be unknown, got %#v", got)
		}
		if _, ok := Lookup(""); ok {
			t.Fatal("empty code should be unknown")
		}
	})
}

func TestResolve(t *testing.T) {
	t.Run("base flag", func(t *testing.T) {
		got := Resolve("fr")
		if got.Name != "French" || got.Flag != "🇫🇷" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestResolverOverrides(t *testing.T) {
	r := NewResolver(map[string]string{"fr_FR": "Français de France", "de": "  "})

	if got, ok := r.Name("fr-FR"); !ok || got != "Français de France" {
		t.Fatalf("override = %q, %v", got, ok)
	}
	if got, ok := r.Name("de"); !ok || got != "German" {
		t.Fatalf("blank override should fall through, got %q, %v", got, ok)
	}
	if _, ok := r.Name("xx_YY"); ok {
		t.Fatal("xx_YY should not resolve")
	}

	var nilResolver *Resolver
	if got, ok := nilResolver.Name("ru"); !ok || got != "Russian" {
		t.Fatalf("nil resolver = %q, %v", got, ok)
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted at %d: %q > %q", i, codes[i-1], codes[i])
		}
	}
}
