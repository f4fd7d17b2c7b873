package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestT(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		id   string
		want string
	}{
		{language.English, "time.pm", "PM"},
		{language.Korean, "time.am", "오전"},
		{language.MustParse("de-AT"), "viewer.close", "Schließen"},
		{language.Japanese, "viewer.delete", "Delete"},
		{language.English, "no.such.key", "no.such.key"},
	}
	for _, tt := range tests {
		if got := T(tt.tag, tt.id); got != tt.want {
			t.Errorf("T(%s, %q) = %q, want %q", tt.tag, tt.id, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	if got := Match(language.MustParse("ko-KR")); got != language.Korean {
		t.Errorf("Match(ko-KR) = %s", got)
	}
	if got := Match(language.MustParse("fr")); got != language.English {
		t.Errorf("Match(fr) = %s, want English fallback", got)
	}
}

func TestTSharesLocalizerPerLanguage(t *testing.T) {
	T(language.MustParse("ko-KR"), "time.am")
	T(language.MustParse("ko"), "time.am")
	T(language.MustParse("fr-CA"), "time.am")

	for _, key := range []string{"ko-KR", "fr-CA", "fr"} {
		if _, ok := localizers.Load(key); ok {
			t.Errorf("localizer cached under unmatched tag %q", key)
		}
	}
	if _, ok := localizers.Load("ko"); !ok {
		t.Errorf("localizer for ko not cached")
	}
}
