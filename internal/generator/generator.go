// Package generator produces random passwords under character-class and
// formatting constraints. All randomness comes from an injected
// crypto.RandomSource; there is no non-cryptographic path.
package generator

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/strength"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// similarChars are glyphs that are easy to confuse with each other
	// and are stripped from the pool when ExcludeSimilar is set.
	similarChars = "0O1lI|"

	MinLength = 4
	MaxLength = 128

	// maxDraftAttempts bounds the redraw loop used to satisfy the
	// no-adjacent-repeat constraint before it is relaxed.
	maxDraftAttempts = 16
)

var (
	ErrLengthTooShort     = errors.New("password length must be at least 4")
	ErrLengthTooLong      = errors.New("password length must be at most 128")
	ErrNoCharacterTypes   = errors.New("at least one character type must be selected")
	ErrLengthInsufficient = errors.New("password length must be at least equal to the number of selected character types")

	// ErrGenerationExhausted is returned when the retry ceiling is hit
	// while a mandatory constraint (class coverage) is still unmet.
	ErrGenerationExhausted = errors.New("password generation exhausted retry attempts")
)

// Options configures a single generation. ReadableFormat is purely
// cosmetic: it populates Result.Formatted and never changes the password
// content or its entropy.
type Options struct {
	Length           int
	Uppercase        bool
	Lowercase        bool
	Digits           bool
	Symbols          bool
	ExcludeSimilar   bool
	PreventRepeating bool
	ReadableFormat   bool
}

// DefaultOptions returns sensible defaults: 16 characters with all classes
// enabled.
func DefaultOptions() Options {
	return Options{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
}

func (o Options) selectedClasses() []string {
	var classes []string
	if o.Uppercase {
		classes = append(classes, uppercaseChars)
	}
	if o.Lowercase {
		classes = append(classes, lowercaseChars)
	}
	if o.Digits {
		classes = append(classes, digitChars)
	}
	if o.Symbols {
		classes = append(classes, symbolChars)
	}
	return classes
}

// Validate checks the option invariants. Violations are reported as typed
// errors, never panics.
func (o Options) Validate() error {
	if o.Length < MinLength {
		return ErrLengthTooShort
	}
	if o.Length > MaxLength {
		return ErrLengthTooLong
	}
	classes := o.selectedClasses()
	if len(classes) == 0 {
		return ErrNoCharacterTypes
	}
	if o.Length < len(classes) {
		return ErrLengthInsufficient
	}
	return nil
}

// Result is the outcome of one Generate call. It is immutable and owned by
// the caller.
type Result struct {
	Password string
	// Formatted is the readable grouping of Password, populated when
	// Options.ReadableFormat is set.
	Formatted string
	// Entropy is length * log2(poolSize) in bits, a flat upper bound on
	// the guess space.
	Entropy  float64
	Strength strength.Result
	// RelaxedNoRepeat is true when the no-adjacent-repeat constraint had
	// to be dropped after the retry ceiling; the password is still valid
	// in every other respect.
	RelaxedNoRepeat bool
	GeneratedAt     time.Time
}

// Generator builds passwords from an explicit random source.
type Generator struct {
	src *crypto.RandomSource
}

// New creates a Generator using the given random source.
func New(src *crypto.RandomSource) *Generator {
	return &Generator{src: src}
}

// Generate produces a password satisfying opts. Class coverage (at least
// one character per selected class) is always guaranteed; the
// no-adjacent-repeat constraint may be relaxed after maxDraftAttempts, in
// which case Result.RelaxedNoRepeat is set.
func (g *Generator) Generate(opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	classes := opts.selectedClasses()
	if opts.ExcludeSimilar {
		for i, c := range classes {
			classes[i] = stripSimilar(c)
		}
	}
	pool := strings.Join(classes, "")

	var relaxed bool
	password, ok, err := attempt(maxDraftAttempts, func() (string, bool, error) {
		draft, err := g.draw(pool, classes, opts.Length)
		if err != nil {
			return "", false, err
		}
		// Repair can overwrite the sole representative of another
		// class; such drafts are rejected and redrawn.
		if missingClass(draft, classes) {
			return "", false, nil
		}
		if opts.PreventRepeating && hasAdjacentRepeat(draft) {
			return "", false, nil
		}
		return draft, true, nil
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		// The no-repeat constraint could not be satisfied within the
		// ceiling; relax it for one final attempt rather than failing.
		// Class coverage is mandatory and is never relaxed.
		password, err = g.draw(pool, classes, opts.Length)
		if err != nil {
			return Result{}, err
		}
		if missingClass(password, classes) {
			return Result{}, ErrGenerationExhausted
		}
		relaxed = opts.PreventRepeating
	}

	entropy := float64(opts.Length) * math.Log2(float64(len(pool)))

	result := Result{
		Password:        password,
		Entropy:         entropy,
		Strength:        strength.Calculate(password),
		RelaxedNoRepeat: relaxed,
		GeneratedAt:     time.Now(),
	}
	if opts.ReadableFormat {
		result.Formatted = FormatReadable(password)
	}
	return result, nil
}

// draw produces one draft: a uniform draw from the pool followed by
// class-coverage repair at random distinct positions.
func (g *Generator) draw(pool string, classes []string, length int) (string, error) {
	draft := make([]byte, length)
	for i := range draft {
		idx, err := g.src.Int(0, len(pool)-1)
		if err != nil {
			return "", err
		}
		draft[i] = pool[idx]
	}

	// Pre-shuffled index list gives each missing class a distinct
	// position to overwrite, so one repair cannot undo another.
	var positions []int
	next := 0
	for _, class := range classes {
		if strings.ContainsAny(string(draft), class) {
			continue
		}
		if positions == nil {
			indexes := make([]int, length)
			for i := range indexes {
				indexes[i] = i
			}
			shuffled, err := g.src.ShuffleInts(indexes)
			if err != nil {
				return "", err
			}
			positions = shuffled
		}
		idx, err := g.src.Int(0, len(class)-1)
		if err != nil {
			return "", err
		}
		draft[positions[next]] = class[idx]
		next++
	}

	return string(draft), nil
}

func stripSimilar(class string) string {
	var b strings.Builder
	for i := 0; i < len(class); i++ {
		if !strings.ContainsRune(similarChars, rune(class[i])) {
			b.WriteByte(class[i])
		}
	}
	return b.String()
}

func hasAdjacentRepeat(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return true
		}
	}
	return false
}

func missingClass(password string, classes []string) bool {
	for _, class := range classes {
		if !strings.ContainsAny(password, class) {
			return true
		}
	}
	return false
}
