// Package strength scores passwords with a heuristic 0-100 scale. The score
// is a coarse guide for users, not a cracking-time oracle: entropy here is
// length * log2(character-pool size), an upper bound on the guess space.
package strength

import (
	"math"
	"strings"
	"unicode"
)

// Level is the ordinal strength bucket shown to users.
type Level int

const (
	LevelWeak Level = iota
	LevelFair
	LevelGood
	LevelStrong
)

func (l Level) String() string {
	switch l {
	case LevelWeak:
		return "weak"
	case LevelFair:
		return "fair"
	case LevelGood:
		return "good"
	case LevelStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Color returns the display color associated with the level.
func (l Level) Color() string {
	switch l {
	case LevelWeak:
		return "#e74c3c"
	case LevelFair:
		return "#f39c12"
	case LevelGood:
		return "#f1c40f"
	case LevelStrong:
		return "#2ecc71"
	default:
		return "#95a5a6"
	}
}

// Result is the outcome of a strength calculation. It is created fresh per
// Calculate call and holds no references to the input.
type Result struct {
	Score    int      `json:"score"`
	Level    Level    `json:"-"`
	Entropy  float64  `json:"entropy"`
	Feedback []string `json:"feedback"`
}

// Bucket maps the 0-100 score onto the legacy discrete 0-4 scale
// (very weak .. strong) for callers that still expect it.
func (r Result) Bucket() int {
	b := r.Score / 20
	if b > 4 {
		b = 4
	}
	return b
}

// Approximate character-class sizes used for the pool estimate.
const (
	lowerSetSize  = 26
	upperSetSize  = 26
	digitSetSize  = 10
	symbolSetSize = 32
)

// Score components and penalties. Positives total 100 for a long,
// all-class, all-unique password.
const (
	maxEntropyPoints   = 40
	entropyFullAtBits  = 80
	classPresentPoints = 5
	maxUniquePoints    = 10

	repeatPenalty     = 15
	sequencePenalty   = 10
	keyboardPenalty   = 15
	dictionaryPenalty = 20

	strongShortCircuitScore = 90
	maxFeedbackItems        = 5
)

var keyboardPatterns = []string{
	"qwerty", "qwert", "werty",
	"asdfgh", "asdf", "sdfg",
	"zxcvbn", "zxcv", "xcvb",
	"1q2w3e", "qazwsx",
}

var commonPasswords = []string{
	"password", "passwort", "123456", "12345678", "qwerty", "abc123",
	"letmein", "monkey", "iloveyou", "admin", "welcome", "dragon",
	"master", "login", "princess", "sunshine", "football", "shadow",
}

type composition struct {
	hasUpper  bool
	hasLower  bool
	hasDigit  bool
	hasSymbol bool
}

func (c composition) poolSize() int {
	size := 0
	if c.hasUpper {
		size += upperSetSize
	}
	if c.hasLower {
		size += lowerSetSize
	}
	if c.hasDigit {
		size += digitSetSize
	}
	if c.hasSymbol {
		size += symbolSetSize
	}
	return size
}

func classify(password string) composition {
	var c composition
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.hasUpper = true
		case unicode.IsLower(r):
			c.hasLower = true
		case unicode.IsDigit(r):
			c.hasDigit = true
		default:
			c.hasSymbol = true
		}
	}
	return c
}

// Entropy returns length * log2(estimated pool size) in bits.
func Entropy(password string) float64 {
	if password == "" {
		return 0
	}
	pool := classify(password).poolSize()
	if pool == 0 {
		return 0
	}
	return float64(len([]rune(password))) * math.Log2(float64(pool))
}

// Calculate scores an arbitrary password string. It is a total function:
// any input, including empty, yields a well-formed Result.
func Calculate(password string) Result {
	if password == "" {
		return Result{
			Score:    0,
			Level:    LevelWeak,
			Entropy:  0,
			Feedback: []string{"Password is required"},
		}
	}

	runes := []rune(password)
	length := len(runes)
	comp := classify(password)
	entropy := Entropy(password)

	score := 0

	// Capped entropy contribution: full marks at entropyFullAtBits.
	entropyPoints := int(entropy * maxEntropyPoints / entropyFullAtBits)
	if entropyPoints > maxEntropyPoints {
		entropyPoints = maxEntropyPoints
	}
	score += entropyPoints

	switch {
	case length >= 16:
		score += 20
	case length >= 12:
		score += 15
	case length >= 8:
		score += 10
	}

	for _, present := range []bool{comp.hasUpper, comp.hasLower, comp.hasDigit, comp.hasSymbol} {
		if present {
			score += classPresentPoints
		}
	}

	score += uniquePoints(runes)

	repeated := hasRepeatedRun(runes)
	sequential := hasSequence(runes)
	keyboard := hasKeyboardPattern(password)
	dictionary := hasCommonPassword(password)

	if repeated {
		score -= repeatPenalty
	}
	if sequential {
		score -= sequencePenalty
	}
	if keyboard {
		score -= keyboardPenalty
	}
	if dictionary {
		score -= dictionaryPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{
		Score:    score,
		Level:    levelFor(score),
		Entropy:  entropy,
		Feedback: feedback(score, length, comp, repeated, sequential, keyboard, dictionary),
	}
}

func levelFor(score int) Level {
	switch {
	case score < 40:
		return LevelWeak
	case score < 60:
		return LevelFair
	case score < 80:
		return LevelGood
	default:
		return LevelStrong
	}
}

func uniquePoints(runes []rune) int {
	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		seen[r] = struct{}{}
	}
	return maxUniquePoints * len(seen) / len(runes)
}

// hasRepeatedRun reports whether the password contains the same character
// three or more times in a row.
func hasRepeatedRun(runes []rune) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// hasSequence reports whether the password contains a 3-character ascending
// or descending run of letters or digits, e.g. "abc", "321".
func hasSequence(runes []rune) bool {
	for i := 2; i < len(runes); i++ {
		a, b, c := runes[i-2], runes[i-1], runes[i]
		if !isSequenceable(a) || !isSequenceable(b) || !isSequenceable(c) {
			continue
		}
		if b == a+1 && c == b+1 {
			return true
		}
		if b == a-1 && c == b-1 {
			return true
		}
	}
	return false
}

func isSequenceable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasKeyboardPattern(password string) bool {
	lower := strings.ToLower(password)
	for _, p := range keyboardPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func hasCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	for _, p := range commonPasswords {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// feedback builds the advisory list. Items are distinct, actionable and
// never contradict the password's actual composition.
func feedback(score, length int, comp composition, repeated, sequential, keyboard, dictionary bool) []string {
	if score >= strongShortCircuitScore {
		return []string{"Very strong password"}
	}

	var items []string
	add := func(msg string) {
		if len(items) < maxFeedbackItems {
			items = append(items, msg)
		}
	}

	if length < 8 {
		add("Use at least 8 characters")
	} else if length < 12 {
		add("Consider using 12 or more characters")
	}
	if !comp.hasUpper {
		add("Add uppercase letters")
	}
	if !comp.hasLower {
		add("Add lowercase letters")
	}
	if !comp.hasDigit {
		add("Add numbers")
	}
	if !comp.hasSymbol {
		add("Add symbols")
	}
	if repeated {
		add("Avoid repeated characters")
	}
	if sequential {
		add("Avoid sequential characters")
	}
	if keyboard {
		add("Avoid keyboard patterns")
	}
	if dictionary {
		add("Avoid common words and passwords")
	}

	if len(items) == 0 {
		add("Good password")
	}
	return items
}
