package consts

const (
	ParamDate      = "date"
	ParamRover     = "rover"
	ParamSol       = "sol"
	ParamCamera    = "camera"
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamPage      = "page"
	ParamSize      = "size"
	ParamAsteroid  = "asteroid_id"

	ApiKey = "api_key"

	// env
	NasaKey     = "NASA_KEY"
	NasaBaseURL = "NASA_BASE_URL"
	NasaTimeout = "NASA_TIMEOUT"
	Port        = "PORT"
	CorsOrigin  = "CORS_ORIGIN"
	LogLevel    = "LOG_LEVEL"

	DBHost     = "DB_HOST"
	DBPort     = "DB_PORT"
	DBUsername = "DB_USERNAME"
	DBPassword = "DB_PASSWORD"
	DBName     = "DB_NAME"
	DBSSLMode  = "DB_SSLMODE"

	DefaultBaseURL = "https://api.nasa.gov"
	DefaultPort    = "5001"
	DefaultOrigin  = "*"

	HeaderRequestID = "X-Request-ID"
)

// route names, used as log fields, metric labels and journal rows
const (
	RouteApod   = "apod"
	RouteRover  = "mars-rover-photos"
	RouteFeed   = "asteroids-feed"
	RouteLookup = "asteroids-lookup"
	RouteBrowse = "asteroids-browse"
)

// public route patterns as reported by /health
var Endpoints = []string{
	"/api/apod",
	"/api/mars-rover-photos",
	"/api/asteroids/feed",
	"/api/asteroids/lookup/:asteroid_id",
	"/api/asteroids/browse",
}
