// Package app ties pose detection to plugin actions for the Mudra system.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tracking"
)

// Config holds the application's collaborators. Store, Plugins and Executor
// may be nil; without them poses are detected but nothing is dispatched.
type Config struct {
	Store    *store.Store
	Plugins  *plugin.Manager
	Executor *plugin.Executor
	Logger   *zap.Logger
}

// Event describes a newly recognized pose on one hand.
type Event struct {
	Pose string    `json:"pose"`
	Hand string    `json:"hand"`
	At   time.Time `json:"at"`
	// Plugin and Action are set when the pose has a bound action.
	Plugin string `json:"plugin,omitempty"`
	Action string `json:"action,omitempty"`
	// Error is set when dispatching the bound action failed.
	Error string `json:"error,omitempty"`
}

// Detection is the result for one hand in one frame.
type Detection struct {
	Hand    string `json:"hand"`
	Matched bool   `json:"matched"`
	Pose    string `json:"pose,omitempty"`
	// New is true when the pose differs from the previous frame's pose on
	// the same hand.
	New   bool   `json:"new,omitempty"`
	Error string `json:"error,omitempty"`
}

// App owns the pose library and dispatches bound actions when a hand's pose
// changes.
type App struct {
	config  Config
	log     *zap.Logger
	library *pose.Library

	mu        sync.RWMutex
	enabled   bool
	last      map[string]string // hand -> last recognized pose name
	observers []func(Event)
}

// New creates an App. Detection starts enabled unless the store has the
// toggle persisted as off.
func New(config Config) *App {
	log := logger.OrNop(config.Logger)

	a := &App{
		config:  config,
		log:     log.Named("app"),
		library: pose.NewLibrary(),
		enabled: true,
		last:    make(map[string]string),
	}

	if config.Store != nil {
		enabled, err := config.Store.Settings().GetBool(store.SettingDetectionEnabled, true)
		if err != nil {
			a.log.Warn("failed to read detection setting", zap.Error(err))
		}
		a.enabled = enabled
	}

	return a
}

// Library returns the live pose library.
func (a *App) Library() *pose.Library {
	return a.library
}

// SetEnabled turns detection on or off and persists the choice.
func (a *App) SetEnabled(enabled bool) error {
	a.mu.Lock()
	a.enabled = enabled
	if !enabled {
		a.last = make(map[string]string)
	}
	a.mu.Unlock()

	a.log.Info("detection toggled", zap.Bool("enabled", enabled))
	if a.config.Store == nil {
		return nil
	}
	return a.config.Store.Settings().SetBool(store.SettingDetectionEnabled, enabled)
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnPose registers fn to be called for every Event. Callbacks run on the
// detecting goroutine and must not block.
func (a *App) OnPose(fn func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// LoadPoses replaces the library with the store's enabled poses, in order.
func (a *App) LoadPoses() error {
	if a.config.Store == nil {
		return nil
	}

	defs, err := a.config.Store.Poses().ListEnabledDefinitions()
	if err != nil {
		return fmt.Errorf("list poses: %w", err)
	}

	a.mu.Lock()
	a.last = make(map[string]string)
	a.mu.Unlock()
	a.library.Replace(defs)

	a.log.Info("poses loaded", zap.Int("count", len(defs)))
	return nil
}

// Process classifies one sample. When the hand's pose differs from the last
// one seen for that hand, observers are notified and the bound action, if
// any, is executed. A disabled app returns nil without inspecting s.
// Engine errors are returned unchanged.
func (a *App) Process(ctx context.Context, s *pose.HandSample) (*pose.Definition, error) {
	matched, _, err := a.process(ctx, s)
	return matched, err
}

// process is Process that also reports whether the match was a change for
// the hand, decided under the same lock that updates the hand's state.
func (a *App) process(ctx context.Context, s *pose.HandSample) (*pose.Definition, bool, error) {
	if !a.IsEnabled() {
		return nil, false, nil
	}

	matched, err := a.library.Detect(s)
	if err != nil {
		return nil, false, err
	}

	hand := s.Handedness()
	a.mu.Lock()
	if matched == nil {
		delete(a.last, hand)
		a.mu.Unlock()
		return nil, false, nil
	}
	changed := a.last[hand] != matched.Name
	a.last[hand] = matched.Name
	observers := a.observers
	a.mu.Unlock()

	if !changed {
		return matched, false, nil
	}

	event := Event{Pose: matched.Name, Hand: hand, At: time.Now()}
	a.log.Info("pose recognized", zap.String("pose", event.Pose), zap.String("hand", hand))
	a.dispatch(ctx, &event)

	for _, fn := range observers {
		fn(event)
	}
	return matched, true, nil
}

// Classify runs Process on s and reports the outcome as a Detection.
func (a *App) Classify(ctx context.Context, s *pose.HandSample) Detection {
	d := Detection{Hand: s.Handedness()}

	matched, changed, err := a.process(ctx, s)
	switch {
	case err != nil:
		d.Error = err.Error()
	case matched != nil:
		d.Matched = true
		d.Pose = matched.Name
		d.New = changed
	}
	return d
}

// ProcessFrame converts and classifies every hand in f. A hand that cannot
// be converted or classified is reported in its Detection and skipped.
func (a *App) ProcessFrame(ctx context.Context, f tracking.Frame) []Detection {
	out := make([]Detection, 0, len(f.Hands))
	for i := range f.Hands {
		sample, err := f.Hands[i].ToSample(f.Head)
		if err != nil {
			out = append(out, Detection{Hand: f.Hands[i].Handedness, Error: err.Error()})
			continue
		}
		out = append(out, a.Classify(ctx, &sample))
	}
	return out
}

// dispatch runs the action bound to ev's pose and records the outcome in ev.
func (a *App) dispatch(ctx context.Context, ev *Event) {
	if a.config.Store == nil || a.config.Plugins == nil || a.config.Executor == nil {
		return
	}

	p, err := a.config.Store.Poses().GetByName(ev.Pose)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		a.log.Error("failed to look up pose", zap.String("pose", ev.Pose), zap.Error(err))
		ev.Error = err.Error()
		return
	}

	binding, err := a.config.Store.Actions().GetByPoseID(p.ID)
	if err != nil {
		a.log.Error("failed to look up action", zap.String("pose", ev.Pose), zap.Error(err))
		ev.Error = err.Error()
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}
	ev.Plugin = binding.PluginName
	ev.Action = binding.ActionName

	plug, err := a.config.Plugins.Resolve(binding.PluginName, binding.ActionName)
	if err != nil {
		a.log.Warn("cannot dispatch action", zap.String("pose", ev.Pose), zap.Error(err))
		ev.Error = err.Error()
		return
	}

	resp, err := a.config.Executor.Execute(ctx, plug, &plugin.Request{
		Action: binding.ActionName,
		Pose:   ev.Pose,
		Hand:   ev.Hand,
		Config: binding.Config,
	})
	switch {
	case err != nil:
		ev.Error = err.Error()
	case !resp.Success:
		ev.Error = resp.Error
	}
	if ev.Error != "" {
		a.log.Warn("action failed",
			zap.String("pose", ev.Pose),
			zap.String("plugin", ev.Plugin),
			zap.String("action", ev.Action),
			zap.String("error", ev.Error))
	}
}
