package service

import (
	"github.com/passguard/passguard-go/internal/generator"
	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/strength"
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen *generator.Generator
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(gen *generator.Generator) *GeneratorService {
	return &GeneratorService{gen: gen}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := generator.Options{
		Length:           req.Length,
		Uppercase:        boolOrDefault(req.Uppercase, true),
		Lowercase:        boolOrDefault(req.Lowercase, true),
		Digits:           boolOrDefault(req.Digits, true),
		Symbols:          boolOrDefault(req.Symbols, true),
		ExcludeSimilar:   req.ExcludeSimilar,
		PreventRepeating: req.PreventRepeating,
		ReadableFormat:   req.ReadableFormat,
	}

	if opts.Length == 0 {
		opts.Length = generator.DefaultOptions().Length
	}

	result, err := s.gen.Generate(opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password:        result.Password,
		Formatted:       result.Formatted,
		Length:          len(result.Password),
		Entropy:         result.Entropy,
		Strength:        strengthResponse(result.Strength, ""),
		RelaxedNoRepeat: result.RelaxedNoRepeat,
		GeneratedAt:     result.GeneratedAt,
	}, nil
}

// strengthResponse converts a strength.Result into its API shape.
func strengthResponse(r strength.Result, crackTime string) model.StrengthResponse {
	return model.StrengthResponse{
		Score:     r.Score,
		Level:     r.Level.String(),
		Color:     r.Level.Color(),
		Bucket:    r.Bucket(),
		Entropy:   r.Entropy,
		Feedback:  r.Feedback,
		CrackTime: crackTime,
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
