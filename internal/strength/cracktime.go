package strength

import (
	"fmt"
	"math"
)

// assumedGuessesPerSecond is the attacker model for crack-time estimation:
// an offline attack at one billion guesses per second. The estimate divides
// the guess space by twice this rate (average case) and buckets the result.
const assumedGuessesPerSecond = 1e9

const (
	secondsPerMinute  = 60
	secondsPerHour    = 3600
	secondsPerDay     = 86400
	secondsPerYear    = 365.25 * secondsPerDay
	secondsPerCentury = 100 * secondsPerYear
)

// EstimateCrackTime returns a rough, bucketed crack-time estimate for the
// password under the documented attacker model.
func EstimateCrackTime(password string) string {
	if password == "" {
		return "Instantly"
	}

	pool := classify(password).poolSize()
	if pool == 0 {
		return "Instantly"
	}

	// pool^length can overflow any integer type for long passwords;
	// float64 saturates to +Inf instead, which buckets to Centuries.
	combinations := math.Pow(float64(pool), float64(len([]rune(password))))
	seconds := combinations / (2 * assumedGuessesPerSecond)

	switch {
	case seconds < 1:
		return "Instantly"
	case seconds < secondsPerMinute:
		return fmt.Sprintf("%d seconds", int(seconds))
	case seconds < secondsPerHour:
		return fmt.Sprintf("%d minutes", int(seconds/secondsPerMinute))
	case seconds < secondsPerDay:
		return fmt.Sprintf("%d hours", int(seconds/secondsPerHour))
	case seconds < secondsPerYear:
		return fmt.Sprintf("%d days", int(seconds/secondsPerDay))
	case seconds < secondsPerCentury:
		return fmt.Sprintf("%d years", int(seconds/secondsPerYear))
	default:
		return "Centuries"
	}
}
