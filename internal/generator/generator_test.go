package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/passguard/passguard-go/internal/crypto"
)

func newTestGenerator() *Generator {
	return New(crypto.NewRandomSource())
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name: "default options",
			opts: DefaultOptions(),
		},
		{
			name: "minimum length",
			opts: Options{Length: MinLength, Lowercase: true},
		},
		{
			name: "maximum length",
			opts: Options{Length: MaxLength, Uppercase: true, Lowercase: true},
		},
		{
			name:    "length too short",
			opts:    Options{Length: 3, Uppercase: true, Lowercase: true, Digits: true, Symbols: true},
			wantErr: ErrLengthTooShort,
		},
		{
			name:    "length too long",
			opts:    Options{Length: 200, Uppercase: true},
			wantErr: ErrLengthTooLong,
		},
		{
			name:    "no character types selected",
			opts:    Options{Length: 16},
			wantErr: ErrNoCharacterTypes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestGenerator().Generate(tt.opts)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(result.Password) != tt.opts.Length {
				t.Errorf("Generate() length = %d, want %d", len(result.Password), tt.opts.Length)
			}
		})
	}
}

func TestGenerateClassCoverage(t *testing.T) {
	opts := Options{
		Length:    12,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
	gen := newTestGenerator()

	// Run multiple times to reduce flakiness from randomness.
	for i := 0; i < 50; i++ {
		result, err := gen.Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}

		password := result.Password
		if !strings.ContainsAny(password, uppercaseChars) {
			t.Errorf("password %q missing uppercase character", password)
		}
		if !strings.ContainsAny(password, lowercaseChars) {
			t.Errorf("password %q missing lowercase character", password)
		}
		if !strings.ContainsAny(password, digitChars) {
			t.Errorf("password %q missing digit character", password)
		}
		if !strings.ContainsAny(password, symbolChars) {
			t.Errorf("password %q missing symbol character", password)
		}
	}
}

func TestGenerateExcludeSimilar(t *testing.T) {
	opts := Options{
		Length:         24,
		Uppercase:      true,
		Lowercase:      true,
		Digits:         true,
		Symbols:        true,
		ExcludeSimilar: true,
	}
	gen := newTestGenerator()

	for i := 0; i < 50; i++ {
		result, err := gen.Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if strings.ContainsAny(result.Password, similarChars) {
			t.Errorf("password %q contains similar-glyph character", result.Password)
		}
	}
}

func TestGeneratePreventRepeating(t *testing.T) {
	opts := Options{
		Length:           16,
		Uppercase:        true,
		Lowercase:        true,
		Digits:           true,
		Symbols:          true,
		PreventRepeating: true,
	}
	gen := newTestGenerator()

	for i := 0; i < 50; i++ {
		result, err := gen.Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if result.RelaxedNoRepeat {
			// Documented fallback path: allowed, just not expected to
			// dominate with a 94-character pool.
			continue
		}
		if hasAdjacentRepeat(result.Password) {
			t.Errorf("password %q has adjacent repeated characters", result.Password)
		}
	}
}

func TestGenerateSingleClassContainsOnlyThatClass(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		charset string
	}{
		{"uppercase only", Options{Length: 16, Uppercase: true}, uppercaseChars},
		{"lowercase only", Options{Length: 16, Lowercase: true}, lowercaseChars},
		{"digits only", Options{Length: 16, Digits: true}, digitChars},
		{"symbols only", Options{Length: 16, Symbols: true}, symbolChars},
	}

	gen := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := gen.Generate(tt.opts)
			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			for _, c := range result.Password {
				if !strings.ContainsRune(tt.charset, c) {
					t.Errorf("password %q contains %q outside its class", result.Password, c)
				}
			}
		})
	}
}

func TestGenerateEntropyMonotonic(t *testing.T) {
	gen := newTestGenerator()

	base, err := gen.Generate(Options{Length: 10, Lowercase: true})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	longer, err := gen.Generate(Options{Length: 20, Lowercase: true})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if longer.Entropy <= base.Entropy {
		t.Errorf("entropy not increasing in length: %v <= %v", longer.Entropy, base.Entropy)
	}

	wider, err := gen.Generate(Options{Length: 10, Lowercase: true, Uppercase: true, Digits: true, Symbols: true})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if wider.Entropy <= base.Entropy {
		t.Errorf("entropy not increasing in pool size: %v <= %v", wider.Entropy, base.Entropy)
	}
}

func TestGenerateAnnotatesStrength(t *testing.T) {
	result, err := newTestGenerator().Generate(DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if result.Strength.Score == 0 {
		t.Error("Generate() result has zero strength score")
	}
	if result.GeneratedAt.IsZero() {
		t.Error("Generate() result has zero timestamp")
	}
}

func TestGenerateReadableFormat(t *testing.T) {
	opts := DefaultOptions()
	opts.ReadableFormat = true

	result, err := newTestGenerator().Generate(opts)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if result.Formatted == "" {
		t.Fatal("Generate() did not populate Formatted")
	}
	if Unformat(result.Formatted) != result.Password {
		t.Errorf("Unformat(%q) = %q, want %q", result.Formatted, Unformat(result.Formatted), result.Password)
	}
}

func TestFormatReadable(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty", "", ""},
		{"shorter than one group", "abc", "abc"},
		{"exact groups", "abcd1234", "abcd 1234"},
		{"trailing partial group", "abcd1234xy", "abcd 1234 xy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReadable(tt.password)
			if got != tt.want {
				t.Errorf("FormatReadable(%q) = %q, want %q", tt.password, got, tt.want)
			}
			if Unformat(got) != tt.password {
				t.Errorf("Unformat(%q) = %q, want %q", got, Unformat(got), tt.password)
			}
		})
	}
}

func TestAttemptCeiling(t *testing.T) {
	calls := 0
	_, ok, err := attempt(5, func() (int, bool, error) {
		calls++
		return 0, false, nil
	})
	if err != nil {
		t.Fatalf("attempt() unexpected error: %v", err)
	}
	if ok {
		t.Error("attempt() reported acceptance with an always-rejecting fn")
	}
	if calls != 5 {
		t.Errorf("attempt() ran fn %d times, want 5", calls)
	}
}
