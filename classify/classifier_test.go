package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_BasicArithmetic(t *testing.T) {
	c := New()

	res := c.Classify("add 5 and 7")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryMath, res.Category)
	assert.Equal(t, SubtypeBasicArithmetic, res.Subtype)
	assert.Contains(t, res.Rewritten, "using the available math tools")
	assert.Contains(t, res.Rewritten, "Operation type: Basic Arithmetic")
	assert.Contains(t, res.Rewritten, "User request: add 5 and 7")
}

func TestClassify_ExpressionFallsThroughToExpressionRule(t *testing.T) {
	c := New()

	res := c.Classify("what is 12 * 4")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryMath, res.Category)
	assert.Equal(t, SubtypeExpressions, res.Subtype)
}

func TestClassify_MathTakesPrecedenceOverWeather(t *testing.T) {
	c := New()

	// Mentions temperature but is primarily a calculation.
	res := c.Classify("what is the temperature when you multiply 3 and 4")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryMath, res.Category)
}

func TestClassify_WeatherWithoutCoordinatesHintsLocationSearch(t *testing.T) {
	c := New()

	res := c.Classify("what's the weather in Dhaka")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryWeather, res.Category)
	assert.Equal(t, SubtypeGeneralWeather, res.Subtype)
	assert.Contains(t, res.Rewritten, "search for the location first using searchLocation tool")
}

func TestClassify_WeatherWithCoordinatesSkipsLocationSearch(t *testing.T) {
	c := New()

	res := c.Classify("weather at 23.81, 90.41 please")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryWeather, res.Category)
	assert.NotContains(t, res.Rewritten, "searchLocation")
}

func TestClassify_MarineWeather(t *testing.T) {
	c := New()

	res := c.Classify("wave height near 23.77, 90.39")

	require.True(t, res.Routable)
	assert.Equal(t, CategoryWeather, res.Category)
	assert.Equal(t, SubtypeMarineWeather, res.Subtype)
	assert.Contains(t, res.Rewritten, "getMarineWeather")
}

func TestClassify_AirQuality(t *testing.T) {
	c := New()

	res := c.Classify("how is the aqi around here")

	require.True(t, res.Routable)
	assert.Equal(t, SubtypeAirQuality, res.Subtype)
	assert.Contains(t, res.Rewritten, "searchLocation")
	assert.Contains(t, res.Rewritten, "air quality")
}

func TestClassify_NoMatchIsNotRoutable(t *testing.T) {
	c := New()

	res := c.Classify("tell me a joke about programmers")

	assert.False(t, res.Routable)
	assert.Equal(t, CategoryNone, res.Category)
	assert.Equal(t, "tell me a joke about programmers", res.Rewritten)
	assert.Equal(t, "No matching tool found", res.Reason)
}

func TestClassify_EmptyInput(t *testing.T) {
	c := New()

	for _, input := range []string{"", "   ", "\n\t"} {
		res := c.Classify(input)
		assert.False(t, res.Routable)
		assert.Equal(t, "empty input", res.Reason)
		assert.Empty(t, res.Rewritten)
	}
}

func TestClassify_TrimsInput(t *testing.T) {
	c := New()

	res := c.Classify("  add 5 and 7  ")

	require.True(t, res.Routable)
	assert.Contains(t, res.Rewritten, "User request: add 5 and 7")
	assert.NotContains(t, res.Rewritten, "add 5 and 7  ")
}

func TestHasCoordinateEvidence(t *testing.T) {
	assert.True(t, hasCoordinateEvidence("latitude 23.8"))
	assert.True(t, hasCoordinateEvidence("weather at 23.81, 90.41"))
	assert.False(t, hasCoordinateEvidence("weather in Dhaka"))
	assert.False(t, hasCoordinateEvidence("forecast for the next 3 days"))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "MATH", CategoryMath.String())
	assert.Equal(t, "WEATHER", CategoryWeather.String())
	assert.Equal(t, "NONE", CategoryNone.String())
}
