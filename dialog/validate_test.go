package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIsAlphabetic(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Ivan", true},
		{"Иван", true},
		{"Ivanovich", true},
		{"", false},
		{"Ivan1", false},
		{"Ivan Petrov", false},
		{"Ivan-Petrov", false},
		{"Ivan.", false},
		{" ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAlphabetic(tt.in), "IsAlphabetic(%q)", tt.in)
	}
}

func TestIsNumericDocument(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"123456", true},
		{"0", true},
		{"", false},
		{"12 34", false},
		{"12-34", false},
		{"AB1234", false},
		{"١٢٣", false}, // арабско-индийские цифры не принимаются
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNumericDocument(tt.in), "IsNumericDocument(%q)", tt.in)
	}
}

func TestProperty_LettersAreAlphabetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-zA-Zа-яА-ЯёЁ]{1,32}`).Draw(t, "name")
		if !IsAlphabetic(s) {
			t.Fatalf("IsAlphabetic(%q) = false", s)
		}
	})
}

func TestProperty_DigitOrPunctuationBreaksAlphabetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-zA-Z]{0,10}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-zA-Z]{0,10}`).Draw(t, "suffix")
		bad := rapid.SampledFrom([]string{"0", "7", "9", ".", ",", "-", "!", " ", "_"}).Draw(t, "bad")
		s := prefix + bad + suffix
		if IsAlphabetic(s) {
			t.Fatalf("IsAlphabetic(%q) = true", s)
		}
	})
}

func TestProperty_DigitsAreNumeric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[0-9]{1,20}`).Draw(t, "document")
		if !IsNumericDocument(s) {
			t.Fatalf("IsNumericDocument(%q) = false", s)
		}
	})
}

func TestProperty_NonDigitBreaksNumeric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{0,10}`).Draw(t, "digits")
		bad := rapid.SampledFrom([]string{"a", "Z", "-", " ", ".", "Я"}).Draw(t, "bad")
		s := digits + bad
		if IsNumericDocument(s) {
			t.Fatalf("IsNumericDocument(%q) = true", s)
		}
	})
}
