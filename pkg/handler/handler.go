package handler

import (
	"lunarwatch"
	"lunarwatch/pkg/consts"
	"lunarwatch/pkg/metrics"
	"lunarwatch/pkg/nasa"
	srvc "lunarwatch/pkg/service"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	msgApod     = "Failed to fetch APOD from NASA API."
	msgRover    = "Failed to fetch Mars Rover photos."
	msgFeed     = "Failed to fetch asteroid feed."
	msgLookup   = "Failed to lookup asteroid."
	msgBrowse   = "Failed to browse asteroid database."
	msgNotFound = "Asteroid not found."

	msgConfig         = "Server config error: NASA API key missing."
	msgRouteNotFound  = "Route not found."
	msgMethodNotAllow = "Method not allowed."
)

type Handler struct {
	services *srvc.Service
	metrics  *metrics.Metrics
	origins  []string
}

func NewHandler(services *srvc.Service, m *metrics.Metrics, origins []string) *Handler {
	return &Handler{services: services, metrics: m, origins: origins}
}

// InitRoutes returns the router wrapped in request id, fault barrier and CORS.
func (h *Handler) InitRoutes() http.Handler {

	router := mux.NewRouter()

	router.HandleFunc("/api/apod", h.Apod).Methods(http.MethodGet)
	router.HandleFunc("/api/mars-rover-photos", h.RoverPhotos).Methods(http.MethodGet)
	router.HandleFunc("/api/asteroids/feed", h.AsteroidFeed).Methods(http.MethodGet)
	router.HandleFunc("/api/asteroids/lookup/{"+consts.ParamAsteroid+"}", h.AsteroidLookup).Methods(http.MethodGet)
	router.HandleFunc("/api/asteroids/browse", h.AsteroidBrowse).Methods(http.MethodGet)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, http.StatusNotFound, msgRouteNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, http.StatusMethodNotAllowed, msgMethodNotAllow)
	})

	return requestID(recoverer(corsHandler(h.origins)(router)))
}

func (h *Handler) Apod(w http.ResponseWriter, r *http.Request) {
	body, err := h.services.Apod(r.Context(), getStringParam(r, consts.ParamDate))
	h.respond(w, r, consts.RouteApod, msgApod, body, err)
}

func (h *Handler) RoverPhotos(w http.ResponseWriter, r *http.Request) {

	if missing := missingParams(r, consts.ParamRover, consts.ParamSol); len(missing) > 0 {
		sendError(w, http.StatusBadRequest, requiredMessage(missing))
		return
	}

	body, err := h.services.RoverPhotos(r.Context(),
		getStringParam(r, consts.ParamRover),
		getStringParam(r, consts.ParamSol),
		getStringParam(r, consts.ParamCamera))
	h.respond(w, r, consts.RouteRover, msgRover, body, err)
}

func (h *Handler) AsteroidFeed(w http.ResponseWriter, r *http.Request) {

	if missing := missingParams(r, consts.ParamStartDate); len(missing) > 0 {
		sendError(w, http.StatusBadRequest, requiredMessage(missing))
		return
	}

	body, err := h.services.AsteroidFeed(r.Context(),
		getStringParam(r, consts.ParamStartDate),
		getStringParam(r, consts.ParamEndDate))
	h.respond(w, r, consts.RouteFeed, msgFeed, body, err)
}

func (h *Handler) AsteroidLookup(w http.ResponseWriter, r *http.Request) {

	id := mux.Vars(r)[consts.ParamAsteroid]

	body, err := h.services.AsteroidLookup(r.Context(), id)
	if nasa.IsNotFound(err) {
		logEntry(r, consts.RouteLookup).WithField("asteroid_id", id).Info("asteroid not found upstream")
		sendError(w, http.StatusNotFound, msgNotFound)
		return
	}

	h.respond(w, r, consts.RouteLookup, msgLookup, body, err)
}

func (h *Handler) AsteroidBrowse(w http.ResponseWriter, r *http.Request) {
	body, err := h.services.AsteroidBrowse(r.Context(),
		getStringParam(r, consts.ParamPage),
		getStringParam(r, consts.ParamSize))
	h.respond(w, r, consts.RouteBrowse, msgBrowse, body, err)
}

// Health never calls NASA.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {

	endpoints := make([]string, len(consts.Endpoints))
	copy(endpoints, consts.Endpoints)

	sendJSON(w, http.StatusOK, lunarwatch.HealthStatus{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Endpoints: endpoints,
	})
}
