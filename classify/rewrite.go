package classify

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	coordinatePair = regexp.MustCompile(`\d+\.\d+.*\d+\.\d+`)
	isoDate        = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// hasCoordinateEvidence reports whether the text already carries explicit
// coordinate-like tokens: a decimal-number pair or the words latitude /
// longitude. Absence triggers the resolve-location-first hint.
func hasCoordinateEvidence(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "latitude") ||
		strings.Contains(lower, "longitude") ||
		coordinatePair.MatchString(text)
}

func hasDateRange(text string) bool { return isoDate.MatchString(text) }

// rewriteMath prepends the tool instruction naming the detected math
// sub-category.
func rewriteMath(text, subtype string) string {
	return fmt.Sprintf(
		"Please perform this mathematical calculation using the available math tools. Operation type: %s. User request: %s",
		subtype, text)
}

// rewriteWeather builds the two-step hinted prompt for weather intents.
// Whenever coordinate evidence is absent the backend is instructed to
// resolve the place name via searchLocation first, regardless of
// sub-category.
func rewriteWeather(text, subtype string) string {
	coords := hasCoordinateEvidence(text)

	switch subtype {
	case SubtypeCurrentWeather:
		if coords {
			return fmt.Sprintf("Please get the current weather conditions using getCurrentWeather tool. User request: %s", text)
		}
		return fmt.Sprintf("Please search for the location first using searchLocation tool, then get current weather. User request: %s", text)
	case SubtypeDetailedForecast:
		if coords {
			return fmt.Sprintf("Please get the detailed weather forecast using getDetailedForecast tool. User request: %s", text)
		}
		return fmt.Sprintf("Please search for the location first using searchLocation tool, then get detailed forecast. User request: %s", text)
	case SubtypeAirQuality:
		if coords {
			return fmt.Sprintf("Please get the air quality information using getAirQuality tool. User request: %s", text)
		}
		return fmt.Sprintf("Please search for the location first using searchLocation tool, then get air quality data. User request: %s", text)
	case SubtypeLocationSearch:
		return fmt.Sprintf("Please search for the location using searchLocation tool. User request: %s", text)
	case SubtypeHistoricalWeather:
		switch {
		case coords && hasDateRange(text):
			return fmt.Sprintf("Please get historical weather data using getHistoricalWeather tool. User request: %s", text)
		case coords:
			return fmt.Sprintf("Please get historical weather data using getHistoricalWeather tool. Ask user for specific date range if not provided. User request: %s", text)
		default:
			return fmt.Sprintf("Please search for the location first using searchLocation tool, then get historical weather data. Ask user for date range if not provided. User request: %s", text)
		}
	case SubtypeMarineWeather:
		if coords {
			return fmt.Sprintf("Please get marine weather conditions using getMarineWeather tool. User request: %s", text)
		}
		return fmt.Sprintf("Please search for the coastal/marine location first using searchLocation tool, then get marine weather. User request: %s", text)
	default:
		if coords {
			return fmt.Sprintf("Please get the weather information using the appropriate weather tool. Query type: %s. User request: %s", subtype, text)
		}
		return fmt.Sprintf("Please search for the location first using searchLocation tool, then get weather information. Query type: %s. User request: %s", subtype, text)
	}
}
