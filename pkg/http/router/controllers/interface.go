package controllers

import (
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/engine"
)

type NavigationService interface {
	StartRoute(route *datastructure.Route) error
	StartPolyline(encoded string, streetNames []string, estimatedTime float64) (*datastructure.Route, error)
	UpdateFix(fix *datastructure.GPSPoint) (datastructure.NavigationState, []datastructure.AnnouncementEvent, error)
	Stop()
	Status() (bool, bool, datastructure.NavigationState, bool)
	SetAnnouncementsEnabled(enabled bool)
	SetAnnouncementsLocale(locale string) error
	AnnouncementsLocale() datastructure.Locale
	Subscribe(sub engine.Subscriber) func()
}
