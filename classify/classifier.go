package classify

import (
	"fmt"
	"strings"

	"github.com/hupe1980/mcpchat/internal/util"
	"github.com/hupe1980/mcpchat/logging"
)

// Category is the coarse routing target for a classified message.
type Category int

const (
	// CategoryNone means no tool family applies; the message goes to the
	// plain completion path.
	CategoryNone Category = iota
	// CategoryMath routes to the math tool family.
	CategoryMath
	// CategoryWeather routes to the weather tool family.
	CategoryWeather
)

// String returns the uppercase label used in response-source tags.
func (c Category) String() string {
	switch c {
	case CategoryMath:
		return "MATH"
	case CategoryWeather:
		return "WEATHER"
	default:
		return "NONE"
	}
}

// Result is the immutable outcome of classifying one message.
type Result struct {
	// Routable reports whether a specialized tool path applies.
	Routable bool
	// Category is the matched tool family (None when not routable).
	Category Category
	// Subtype is the coarse sub-category label of the matching rule.
	Subtype string
	// Rewritten is the prompt augmented with routing hints for the backend.
	// Equal to the trimmed input when no rule matched.
	Rewritten string
	// Reason is a human readable diagnostic, never used for control flow.
	Reason string
}

// Options configure a Classifier.
type Options struct {
	Logger logging.Logger
}

// Classifier matches free text against the ordered math and weather rule
// families. It is stateless and safe for concurrent use.
type Classifier struct {
	logger logging.Logger
}

// New creates a Classifier with optional overrides.
func New(optFns ...func(o *Options)) *Classifier {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Classifier{logger: opts.Logger}
}

// Classify maps text to a routing result. It never panics or returns an
// error: empty input yields a benign non-routable result and any internal
// fault degrades to the fallback path with a diagnostic reason.
func (c *Classifier) Classify(text string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classification fault", "panic", fmt.Sprintf("%v", r))
			result = Result{
				Routable:  false,
				Category:  CategoryNone,
				Rewritten: strings.TrimSpace(text),
				Reason:    fmt.Sprintf("classification error: %v", r),
			}
		}
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.logger.Warn("empty message received for classification")
		return Result{Routable: false, Category: CategoryNone, Rewritten: trimmed, Reason: "empty input"}
	}

	c.logger.Debug("classifying message", "length", len(trimmed), "preview", util.Preview(trimmed, 50))

	// Math rules carry precedence over weather rules: a message matching
	// both families routes to math.
	if sub, ok := matchFamily(mathRules, trimmed); ok {
		c.logger.Info("math operation detected", "subtype", sub)
		return Result{
			Routable:  true,
			Category:  CategoryMath,
			Subtype:   sub,
			Rewritten: rewriteMath(trimmed, sub),
			Reason:    "Math operation detected: " + sub,
		}
	}

	if sub, ok := matchFamily(weatherRules, trimmed); ok {
		c.logger.Info("weather query detected", "subtype", sub)
		return Result{
			Routable:  true,
			Category:  CategoryWeather,
			Subtype:   sub,
			Rewritten: rewriteWeather(trimmed, sub),
			Reason:    "Weather query detected: " + sub,
		}
	}

	c.logger.Info("no tool match found, routing to fallback completion")
	return Result{Routable: false, Category: CategoryNone, Rewritten: trimmed, Reason: "No matching tool found"}
}

// matchFamily tries rules top to bottom and returns the sub-category of the
// first match.
func matchFamily(rules []rule, text string) (string, bool) {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.subtype, true
		}
	}
	return "", false
}
