package engine

import (
	"errors"
	"sync"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"go.uber.org/zap"
)

// Subscriber. receives every navigation update in order. called with the engine lock held,
// must not block and must not call back into the Engine.
type Subscriber interface {
	OnNavigationUpdate(state datastructure.NavigationState, events []datastructure.AnnouncementEvent)
}

// SubscriberFunc. adapter so an ordinary function can be a Subscriber
type SubscriberFunc func(state datastructure.NavigationState, events []datastructure.AnnouncementEvent)

func (f SubscriberFunc) OnNavigationUpdate(state datastructure.NavigationState, events []datastructure.AnnouncementEvent) {
	f(state, events)
}

/*
Engine. session controller of the route-following engine.

at most one navigation session exists at a time. Start, Update and Stop are serialised by one mutex,
so fixes are processed strictly in call order and subscribers observe the updates in the same order.
*/
type Engine struct {
	mu        sync.Mutex
	session   guidance.Session
	tracker   *guidance.Tracker
	announcer *guidance.Announcer

	announcementsEnabled bool
	locale               datastructure.Locale
	lastState            *datastructure.NavigationState

	subSeq      uint
	subscribers map[uint]Subscriber
	subOrder    []uint

	log *zap.Logger
}

func NewEngine(cfg guidance.Config, log *zap.Logger) *Engine {
	locale, err := datastructure.ParseLocale(cfg.Locale)
	if err != nil {
		log.Warn("falling back to english announcements", zap.Error(err))
	}
	return &Engine{
		tracker:              guidance.NewTracker(cfg),
		announcer:            guidance.NewAnnouncer(cfg),
		announcementsEnabled: true,
		locale:               locale,
		subscribers:          make(map[uint]Subscriber),
		log:                  log,
	}
}

// Start. begin following route, replacing any session in progress.
func (e *Engine) Start(route *datastructure.Route) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := guidance.NewSession(route)
	if err != nil {
		e.log.Warn("rejected route", zap.Error(err))
		return err
	}
	if e.session.IsActive() {
		e.log.Info("replacing active navigation session")
	}

	e.session = session.WithAnnouncementsEnabled(e.announcementsEnabled).WithLocale(e.locale)
	e.lastState = nil

	e.log.Info("navigation started",
		zap.Int("segments", route.NumberOfSegments()),
		zap.Float64("totalDistance", route.GetTotalDistance()),
		zap.Float64("estimatedTime", route.GetEstimatedTime()),
	)
	return nil
}

// Update. apply one fix to the active session and publish the resulting state and events.
func (e *Engine) Update(fix *datastructure.GPSPoint) (datastructure.NavigationState, []datastructure.AnnouncementEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, state, err := e.tracker.Advance(e.session, fix)
	if err != nil {
		if errors.Is(err, guidance.ErrInvalidFix) {
			e.log.Warn("rejected fix", zap.Error(err))
		}
		return datastructure.NavigationState{}, nil, err
	}

	next, events := e.announcer.Announce(e.session, next, state)
	e.session = next
	e.lastState = &state

	for _, ev := range events {
		switch ev.Kind {
		case datastructure.REROUTING_REQUESTED:
			e.log.Info("off route, rerouting requested", zap.Int("segment", ev.SegmentIndex),
				zap.Float64("lat", fix.Lat()), zap.Float64("lon", fix.Lon()))
		case datastructure.ARRIVED:
			e.log.Info("arrived at destination", zap.Int("segment", ev.SegmentIndex))
		default:
			e.log.Debug("turn announcement", zap.String("tier", ev.Tier.String()),
				zap.String("turn", ev.Turn.String()), zap.Float64("distance", ev.Distance))
		}
	}

	e.publish(state, events)
	return state, events, nil
}

// Stop. end the session in progress. stopping an idle engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.IsActive() {
		return
	}
	e.session = e.session.Deactivate()
	e.log.Info("navigation stopped")
}

func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.IsActive()
}

// SetAnnouncementsEnabled. turn notifications on or off, for the running session and the next ones.
func (e *Engine) SetAnnouncementsEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.announcementsEnabled = enabled
	e.session = e.session.WithAnnouncementsEnabled(enabled)
}

func (e *Engine) AnnouncementsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.announcementsEnabled
}

// SetAnnouncementsLocale. language of the announcement text, for the running session and the next ones.
// fails with ErrInvalidLocale for an unknown locale.
func (e *Engine) SetAnnouncementsLocale(locale string) error {
	parsed, err := datastructure.ParseLocale(locale)
	if err != nil {
		return util.WrapErrorf(guidance.ErrInvalidLocale, util.ErrBadParamInput, "%v", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.locale = parsed
	e.session = e.session.WithLocale(parsed)
	return nil
}

func (e *Engine) AnnouncementsLocale() datastructure.Locale {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locale
}

// State. last published navigation state of the current session.
func (e *Engine) State() (datastructure.NavigationState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastState == nil {
		return datastructure.NavigationState{}, false
	}
	return *e.lastState, true
}

// Route. route of the current (or last) session
func (e *Engine) Route() (*datastructure.Route, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	route := e.session.GetRoute()
	return route, route != nil
}

// Subscribe. register sub for navigation updates. the returned func unregisters it and may be called more than once.
func (e *Engine) Subscribe(sub Subscriber) func() {
	e.mu.Lock()
	id := e.subSeq
	e.subSeq++
	e.subscribers[id] = sub
	e.subOrder = append(e.subOrder, id)
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subscribers, id)
			for i, sid := range e.subOrder {
				if sid == id {
					e.subOrder = append(e.subOrder[:i:i], e.subOrder[i+1:]...)
					break
				}
			}
		})
	}
}

func (e *Engine) publish(state datastructure.NavigationState, events []datastructure.AnnouncementEvent) {
	for _, id := range e.subOrder {
		sub := e.subscribers[id]
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Error("navigation subscriber panicked", zap.Any("panic", r))
				}
			}()
			sub.OnNavigationUpdate(state, events)
		}()
	}
}
