package core

import (
	"testing"
	"unicode/utf8"
)

func TestEncryptMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single", in: "a", want: "a"},
		{name: "ascii", in: "hello", want: "olleh"},
		{name: "palindrome", in: "level", want: "level"},
		{name: "spaces", in: "ab cd", want: "dc ba"},
		{name: "multibyte", in: "héllo", want: "olléh"},
		{name: "emoji", in: "hi 👋", want: "👋 ih"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncryptMessage(tt.in); got != tt.want {
				t.Fatalf("EncryptMessage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncryptMessageIsInvolution(t *testing.T) {
	inputs := []string{"", "x", "hello", "Привет, мир", "a\nb\tc", "日本語テキスト", "mixed 123 !?"}
	for _, in := range inputs {
		if got := EncryptMessage(EncryptMessage(in)); got != in {
			t.Fatalf("double reversal of %q gave %q", in, got)
		}
	}
}

func TestEncryptMessageInvalidUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a\xffb", want: "b�a"},
		{in: "\xff\xfe", want: "��"},
		// Reversing raw bytes here would produce a valid "€", so every
		// invalid byte is replaced instead.
		{in: "\xac\x82\xe2", want: "���"},
	}
	for _, tt := range tests {
		got := EncryptMessage(tt.in)
		if got != tt.want {
			t.Fatalf("EncryptMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("EncryptMessage(%q) returned invalid UTF-8", tt.in)
		}
		// Once replaced, the output is text and round-trips.
		if again := EncryptMessage(EncryptMessage(got)); again != got {
			t.Fatalf("round trip of %q gave %q", got, again)
		}
	}
}
