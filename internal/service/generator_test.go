package service

import (
	"errors"
	"testing"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/generator"
	"github.com/passguard/passguard-go/internal/model"
)

func newTestGeneratorService() *GeneratorService {
	return NewGeneratorService(generator.New(crypto.NewRandomSource()))
}

func boolPtr(b bool) *bool { return &b }

func TestGenerateDefaults(t *testing.T) {
	// An empty request falls back to all classes at the default length.
	resp, err := newTestGeneratorService().Generate(model.GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	if resp.Length != generator.DefaultOptions().Length {
		t.Errorf("Generate() length = %d, want %d", resp.Length, generator.DefaultOptions().Length)
	}
	if resp.Entropy <= 0 {
		t.Errorf("Generate() entropy = %v, want > 0", resp.Entropy)
	}
	if resp.Strength.Score == 0 {
		t.Error("Generate() strength not annotated")
	}
}

func TestGenerateExplicitFalse(t *testing.T) {
	// Explicit false must be honored, unlike a missing field.
	resp, err := newTestGeneratorService().Generate(model.GenerateRequest{
		Length:    20,
		Uppercase: boolPtr(false),
		Digits:    boolPtr(false),
		Symbols:   boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}

	for _, c := range resp.Password {
		if c < 'a' || c > 'z' {
			t.Errorf("password %q contains %q, want lowercase only", resp.Password, c)
		}
	}
}

func TestGenerateValidationErrorPassthrough(t *testing.T) {
	_, err := newTestGeneratorService().Generate(model.GenerateRequest{Length: 3})
	if !errors.Is(err, generator.ErrLengthTooShort) {
		t.Errorf("Generate() error = %v, want ErrLengthTooShort", err)
	}
}

func TestGenerateReadable(t *testing.T) {
	resp, err := newTestGeneratorService().Generate(model.GenerateRequest{
		Length:         16,
		ReadableFormat: true,
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if resp.Formatted == "" {
		t.Fatal("Generate() did not populate formatted output")
	}
	if generator.Unformat(resp.Formatted) != resp.Password {
		t.Errorf("Unformat(%q) != %q", resp.Formatted, resp.Password)
	}
}

func TestCalculateStrengthService(t *testing.T) {
	svc := NewStrengthService()

	resp := svc.Calculate(model.StrengthRequest{Password: ""})
	if resp.Score != 0 || resp.Level != "weak" {
		t.Errorf("Calculate(\"\") = %+v, want weakest result", resp)
	}
	if resp.CrackTime != "Instantly" {
		t.Errorf("Calculate(\"\") crack time = %q, want Instantly", resp.CrackTime)
	}

	resp = svc.Calculate(model.StrengthRequest{Password: "Xk9$mQ2!pZw7@vRb"})
	if resp.Level != "strong" {
		t.Errorf("Calculate(strong) level = %q, want strong", resp.Level)
	}
	if resp.Bucket != 4 {
		t.Errorf("Calculate(strong) bucket = %d, want 4", resp.Bucket)
	}
}
