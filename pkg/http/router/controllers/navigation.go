package controllers

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
	helper "github.com/lintang-b-s/navigatorx-guidance/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type navigationAPI struct {
	navigationService NavigationService
	validator         *requestValidator
	log               *zap.Logger
	now               func() time.Time
}

func New(navigationService NavigationService, log *zap.Logger) *navigationAPI {
	return &navigationAPI{
		navigationService: navigationService,
		validator:         newRequestValidator(),
		log:               log,
		now:               time.Now,
	}
}

func (api *navigationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/navigation/start", api.start)
	group.POST("/navigation/fix", api.fix)
	group.POST("/navigation/stop", api.stop)
	group.GET("/navigation/status", api.status)
	group.PUT("/navigation/announcements", api.announcements)
}

// start
//
//	@Summary		start following a route. replaces the session in progress.
//	@Description	the route is given either as segments with maneuvers or as an encoded polyline (maneuvers derived from the geometry).
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		startNavigationRequest	true	"route"
//	@Success		201		{object}	routeSummaryResponse
//	@Failure		400		{object}	errorResponse
//	@Router			/navigation/start [post]
func (api *navigationAPI) start(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request startNavigationRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	var (
		route    *datastructure.Route
		polyline string
		err      error
	)
	if len(request.Segments) > 0 {
		route = request.toRoute()
		err = api.navigationService.StartRoute(route)
		if err == nil {
			polyline = geo.PolylineFromCoords(datastructure.NewGeoCoordinates(route.GetWaypoints()))
		}
	} else {
		polyline = request.Polyline
		route, err = api.navigationService.StartPolyline(request.Polyline, request.StreetNames, request.EstimatedTime)
	}
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": NewRouteSummaryResponse(route, polyline)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// fix
//
//	@Summary		push one position fix to the active session
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		fixRequest	true	"fix"
//	@Success		200		{object}	navigationUpdateResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		409		{object}	errorResponse
//	@Router			/navigation/fix [post]
func (api *navigationAPI) fix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request fixRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	state, events, err := api.navigationService.UpdateFix(request.toDataGPS(api.now()))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNavigationUpdateResponse(state, events)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// stop
//
//	@Summary	stop the session in progress
//	@Tags		navigation
//	@Produce	json
//	@Success	200	{object}	statusResponse
//	@Router		/navigation/stop [post]
func (api *navigationAPI) stop(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.navigationService.Stop()
	api.status(w, r, p)
}

// status
//
//	@Summary	whether a session is active and its last navigation state
//	@Tags		navigation
//	@Produce	json
//	@Success	200	{object}	statusResponse
//	@Router		/navigation/status [get]
func (api *navigationAPI) status(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	active, enabled, state, hasState := api.navigationService.Status()
	resp := statusResponse{Active: active, AnnouncementsEnabled: enabled,
		AnnouncementsLocale: api.navigationService.AnnouncementsLocale().String()}
	if hasState {
		stateResp := NewNavigationStateResponse(state)
		resp.State = &stateResp
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// announcements
//
//	@Summary	enable or disable turn announcements, or change their language
//	@Tags		navigation
//	@Accept		json
//	@Produce	json
//	@Param		body	body		announcementsRequest	true	"enabled and/or locale"
//	@Success	200		{object}	statusResponse
//	@Failure	400		{object}	errorResponse
//	@Router		/navigation/announcements [put]
func (api *navigationAPI) announcements(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request announcementsRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validator.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	if request.Locale != nil {
		if err := api.navigationService.SetAnnouncementsLocale(*request.Locale); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
	}
	if request.Enabled != nil {
		api.navigationService.SetAnnouncementsEnabled(*request.Enabled)
	}
	api.status(w, r, p)
}
