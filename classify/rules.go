package classify

import "regexp"

// rule ties a case-insensitive pattern to its coarse sub-category label.
// Precedence is list position: rules are tried top to bottom and the first
// match wins.
type rule struct {
	re      *regexp.Regexp
	subtype string
}

func mustRule(subtype, pattern string) rule {
	return rule{re: regexp.MustCompile(pattern), subtype: subtype}
}

// Sub-category labels for the math family.
const (
	SubtypeBasicArithmetic = "Basic Arithmetic"
	SubtypeAdvancedMath    = "Advanced Math"
	SubtypeTrigonometry    = "Trigonometry"
	SubtypeGeometry        = "Geometry"
	SubtypeStatistics      = "Statistics"
	SubtypeUtility         = "Utility Functions"
	SubtypeExpressions     = "Mathematical Expressions"
	SubtypeNumberOps       = "Number Operations"
)

// Sub-category labels for the weather family.
const (
	SubtypeGeneralWeather    = "General Weather"
	SubtypeCurrentWeather    = "Current Weather"
	SubtypeDetailedForecast  = "Detailed Forecast"
	SubtypeAirQuality        = "Air Quality"
	SubtypeLocationSearch    = "Location Search"
	SubtypeHistoricalWeather = "Historical Weather"
	SubtypeMarineWeather     = "Marine Weather"
	SubtypeWeatherConditions = "Weather Conditions"
	SubtypeContextualWeather = "Contextual Weather"
	SubtypeCoordinateWeather = "Coordinate-based Weather"
)

// mathRules covers arithmetic, geometry and statistics intents.
var mathRules = []rule{
	mustRule(SubtypeBasicArithmetic, `(?i)(add|sum|plus|\+).*\d+.*\d+`),
	mustRule(SubtypeBasicArithmetic, `(?i)(subtract|minus|-).*\d+.*\d+`),
	mustRule(SubtypeBasicArithmetic, `(?i)(multiply|times|\*|product).*\d+.*\d+`),
	mustRule(SubtypeBasicArithmetic, `(?i)(divide|division|/|quotient).*\d+.*\d+`),

	mustRule(SubtypeAdvancedMath, `(?i)(power|exponent|\^|raised\s+to).*\d+.*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(square\s+root|sqrt|√).*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(cube\s+root|cbrt|∛).*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(factorial|!).*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(absolute\s+value|abs|\|).*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(modulo|mod|remainder|%).*\d+.*\d+`),
	mustRule(SubtypeAdvancedMath, `(?i)(logarithm|log|ln|natural\s+log).*\d+`),

	mustRule(SubtypeTrigonometry, `(?i)(sin|sine)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(cos|cosine)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(tan|tangent)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(asin|arcsine|inverse\s+sine)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(acos|arccosine|inverse\s+cosine)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(atan|arctangent|inverse\s+tangent)\s*\(?.*\d+`),
	mustRule(SubtypeTrigonometry, `(?i)(degrees?\s+to\s+radians?|radians?\s+to\s+degrees?|deg\s+to\s+rad|rad\s+to\s+deg).*\d+`),

	mustRule(SubtypeGeometry, `(?i)(area.*(circle|circular)|circle.*area).*\d+`),
	mustRule(SubtypeGeometry, `(?i)(circumference.*(circle|circular)|circle.*circumference|perimeter.*circle).*\d+`),
	mustRule(SubtypeGeometry, `(?i)(area.*(rectangle|rectangular)|rectangle.*area).*\d+.*\d+`),
	mustRule(SubtypeGeometry, `(?i)(area.*(triangle|triangular)|triangle.*area).*\d+.*\d+`),
	mustRule(SubtypeGeometry, `(?i)(area.*square|square.*area|side.*square).*\d+`),
	mustRule(SubtypeGeometry, `(?i)(volume.*(sphere|spherical)|sphere.*volume).*\d+`),
	mustRule(SubtypeGeometry, `(?i)(volume.*(cube|cubic)|cube.*volume).*\d+`),
	mustRule(SubtypeGeometry, `(?i)(volume.*(cylinder|cylindrical)|cylinder.*volume).*\d+.*\d+`),

	mustRule(SubtypeStatistics, `(?i)(average|mean).*\d+.*\d+`),
	mustRule(SubtypeStatistics, `(?i)median.*\d+.*\d+`),
	mustRule(SubtypeStatistics, `(?i)(standard\s+deviation|std\s+dev).*\d+`),
	mustRule(SubtypeStatistics, `(?i)variance.*\d+`),

	mustRule(SubtypeUtility, `(?i)(maximum|max|largest|highest).*\d+.*\d+`),
	mustRule(SubtypeUtility, `(?i)(minimum|min|smallest|lowest).*\d+.*\d+`),
	mustRule(SubtypeUtility, `(?i)(round|rounding).*\d+`),
	mustRule(SubtypeUtility, `(?i)(ceiling|ceil|round\s+up).*\d+`),
	mustRule(SubtypeUtility, `(?i)(floor|round\s+down).*\d+`),
	mustRule(SubtypeUtility, `(?i)(percentage|percent|%).*\d+`),

	mustRule(SubtypeExpressions, `\d+\s*[-+*/^%]\s*\d+`),
	mustRule(SubtypeExpressions, `(?i)calculate.*\d+`),
	mustRule(SubtypeExpressions, `(?i)compute.*\d+`),
	mustRule(SubtypeExpressions, `(?i)solve.*\d+.*[-+*/^%=]`),
	mustRule(SubtypeExpressions, `(?i)what.*is.*\d+.*[-+*/^%].*\d+`),
	mustRule(SubtypeExpressions, `(?i)how\s+much.*\d+.*[-+*/^%].*\d+`),
	mustRule(SubtypeExpressions, `(?i)(equation|formula).*\d+`),

	mustRule(SubtypeNumberOps, `(?i)(prime\s+number|is.*prime).*\d+`),
	mustRule(SubtypeNumberOps, `(?i)(even|odd).*\d+`),
	mustRule(SubtypeNumberOps, `(?i)fibonacci.*\d+`),
	mustRule(SubtypeNumberOps, `(?i)(gcd|greatest\s+common\s+divisor|lcm|least\s+common\s+multiple).*\d+.*\d+`),
}

// weatherRules covers meteorological intents for every weather tool family.
var weatherRules = []rule{
	mustRule(SubtypeGeneralWeather, `(?i)(weather|temperature|temp)`),
	mustRule(SubtypeGeneralWeather, `(?i)(forecast|prediction)`),
	mustRule(SubtypeGeneralWeather, `(?i)(climate|atmospheric)`),

	mustRule(SubtypeCurrentWeather, `(?i)(current\s+weather|weather\s+now|weather\s+right\s+now)`),
	mustRule(SubtypeCurrentWeather, `(?i)(how.*hot|how.*cold|how.*warm|how.*cool)`),
	mustRule(SubtypeCurrentWeather, `(?i)(degrees|celsius|fahrenheit|kelvin|°C|°F|°K)`),
	mustRule(SubtypeCurrentWeather, `(?i)(temperature\s+in|temp\s+in|weather\s+in)`),

	mustRule(SubtypeDetailedForecast, `(?i)(weather\s+forecast|forecast.*weather)`),
	mustRule(SubtypeDetailedForecast, `(?i)(detailed\s+forecast|extended\s+forecast)`),
	mustRule(SubtypeDetailedForecast, `(?i)(hourly\s+forecast|daily\s+forecast)`),
	mustRule(SubtypeDetailedForecast, `(?i)(\d+\s+day.*forecast|forecast.*\d+\s+day)`),
	mustRule(SubtypeDetailedForecast, `(?i)(next\s+\d+\s+days|weather.*next.*days)`),

	mustRule(SubtypeAirQuality, `(?i)(air\s+quality|aqi|air\s+pollution)`),
	mustRule(SubtypeAirQuality, `(?i)(pm2\.5|pm10|particulate\s+matter)`),
	mustRule(SubtypeAirQuality, `(?i)(ozone|carbon\s+monoxide|nitrogen\s+dioxide|sulphur\s+dioxide)`),
	mustRule(SubtypeAirQuality, `(?i)(pollutant|pollution\s+level|air\s+index)`),

	mustRule(SubtypeLocationSearch, `(?i)(search\s+location|find\s+location|location\s+search)`),
	mustRule(SubtypeLocationSearch, `(?i)(coordinates\s+for|lat.*lon.*for|geocode)`),
	mustRule(SubtypeLocationSearch, `(?i)(where\s+is|location\s+of).*weather`),

	mustRule(SubtypeHistoricalWeather, `(?i)(historical\s+weather|past\s+weather|weather\s+history)`),
	mustRule(SubtypeHistoricalWeather, `(?i)(weather\s+on|weather\s+for).*\d{4}-\d{2}-\d{2}`),
	mustRule(SubtypeHistoricalWeather, `(?i)(weather\s+between|weather\s+from).*\d{4}`),
	mustRule(SubtypeHistoricalWeather, `(?i)(last\s+month|last\s+year|previous.*weather)`),

	mustRule(SubtypeMarineWeather, `(?i)(marine\s+weather|ocean\s+weather|sea\s+weather)`),
	mustRule(SubtypeMarineWeather, `(?i)(wave\s+height|wave\s+conditions|swell)`),
	mustRule(SubtypeMarineWeather, `(?i)(sailing\s+conditions|boating\s+weather|maritime)`),
	mustRule(SubtypeMarineWeather, `(?i)(sea\s+state|ocean\s+conditions)`),

	mustRule(SubtypeWeatherConditions, `(?i)(rain|raining|rainy|precipitation)`),
	mustRule(SubtypeWeatherConditions, `(?i)(snow|snowing|snowy|snowfall)`),
	mustRule(SubtypeWeatherConditions, `(?i)(sun|sunny|sunshine|clear).*weather`),
	mustRule(SubtypeWeatherConditions, `(?i)(cloud|cloudy|overcast)`),
	mustRule(SubtypeWeatherConditions, `(?i)(wind|windy|breeze|breezy)`),
	mustRule(SubtypeWeatherConditions, `(?i)(storm|stormy|thunderstorm|lightning)`),
	mustRule(SubtypeWeatherConditions, `(?i)(fog|foggy|mist|misty|haze|hazy)`),
	mustRule(SubtypeWeatherConditions, `(?i)(humidity|humid|moisture)`),
	mustRule(SubtypeWeatherConditions, `(?i)(pressure|barometric)`),
	mustRule(SubtypeWeatherConditions, `(?i)(visibility|visual\s+range)`),
	mustRule(SubtypeWeatherConditions, `(?i)(uv\s+index|ultraviolet)`),

	mustRule(SubtypeContextualWeather, `(?i)weather.*(today|tomorrow|this\s+week|weekend)`),
	mustRule(SubtypeContextualWeather, `(?i)(weather\s+report|meteorological)`),
	mustRule(SubtypeContextualWeather, `(?i)(should\s+i.*umbrella|need.*jacket|dress.*weather)`),

	mustRule(SubtypeCoordinateWeather, `(?i)(latitude|longitude|coordinates?).*weather`),
	mustRule(SubtypeCoordinateWeather, `(?i)weather.*(latitude|longitude|coordinates?)`),
	mustRule(SubtypeCoordinateWeather, `(?i)(\d+\.\d+.*\d+\.\d+|lat.*lon).*weather`),
}
