package usecases

import (
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/engine"
)

type NavigationEngine interface {
	Start(route *datastructure.Route) error
	Update(fix *datastructure.GPSPoint) (datastructure.NavigationState, []datastructure.AnnouncementEvent, error)
	Stop()
	IsActive() bool
	State() (datastructure.NavigationState, bool)
	SetAnnouncementsEnabled(enabled bool)
	AnnouncementsEnabled() bool
	SetAnnouncementsLocale(locale string) error
	AnnouncementsLocale() datastructure.Locale
	Subscribe(sub engine.Subscriber) func()
}
