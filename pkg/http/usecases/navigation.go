package usecases

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/engine"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/guidance"
	"go.uber.org/zap"
)

type NavigationService struct {
	log        *zap.Logger
	engine     NavigationEngine
	routeCache *lru.Cache[string, *datastructure.Route]
}

func NewNavigationService(log *zap.Logger, engine NavigationEngine, routeCacheSize int) (*NavigationService, error) {
	cache, err := lru.New[string, *datastructure.Route](routeCacheSize)
	if err != nil {
		return nil, err
	}
	return &NavigationService{
		log:        log,
		engine:     engine,
		routeCache: cache,
	}, nil
}

// StartRoute. start following a route handed in by the routing collaborator.
func (ns *NavigationService) StartRoute(route *datastructure.Route) error {
	return ns.engine.Start(route)
}

/*
StartPolyline. build a route from an encoded polyline and start following it.
routes are cached by (polyline, street names, estimated time): a client restarting the same route after a
reroute request or a reconnect does not rebuild it.
*/
func (ns *NavigationService) StartPolyline(encoded string, streetNames []string, estimatedTime float64) (*datastructure.Route, error) {
	key := routeCacheKey(encoded, streetNames, estimatedTime)

	route, ok := ns.routeCache.Get(key)
	if !ok {
		var err error
		route, err = guidance.BuildRouteFromPolyline(encoded, streetNames, estimatedTime)
		if err != nil {
			return nil, err
		}
		ns.routeCache.Add(key, route)
	} else {
		ns.log.Debug("route cache hit", zap.Int("segments", route.NumberOfSegments()))
	}

	if err := ns.engine.Start(route); err != nil {
		return nil, err
	}
	return route, nil
}

func (ns *NavigationService) UpdateFix(fix *datastructure.GPSPoint) (datastructure.NavigationState,
	[]datastructure.AnnouncementEvent, error) {
	return ns.engine.Update(fix)
}

func (ns *NavigationService) Stop() {
	ns.engine.Stop()
}

// Status. whether a session is active, whether announcements are on, and the last navigation state if any.
func (ns *NavigationService) Status() (bool, bool, datastructure.NavigationState, bool) {
	state, ok := ns.engine.State()
	return ns.engine.IsActive(), ns.engine.AnnouncementsEnabled(), state, ok
}

func (ns *NavigationService) SetAnnouncementsEnabled(enabled bool) {
	ns.engine.SetAnnouncementsEnabled(enabled)
	ns.log.Info("turn announcements toggled", zap.Bool("enabled", enabled))
}

func (ns *NavigationService) SetAnnouncementsLocale(locale string) error {
	if err := ns.engine.SetAnnouncementsLocale(locale); err != nil {
		return err
	}
	ns.log.Info("announcement locale changed", zap.String("locale", locale))
	return nil
}

func (ns *NavigationService) AnnouncementsLocale() datastructure.Locale {
	return ns.engine.AnnouncementsLocale()
}

func (ns *NavigationService) Subscribe(sub engine.Subscriber) func() {
	return ns.engine.Subscribe(sub)
}

func routeCacheKey(encoded string, streetNames []string, estimatedTime float64) string {
	var sb strings.Builder
	sb.WriteString(encoded)
	sb.WriteByte(0)
	sb.WriteString(strings.Join(streetNames, "\x1f"))
	sb.WriteByte(0)
	sb.WriteString(strconv.FormatFloat(estimatedTime, 'f', -1, 64))
	return sb.String()
}
