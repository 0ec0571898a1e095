package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tracking"
)

// recorder collects events delivered to OnPose.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) poses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Hand+":"+e.Pose)
	}
	return out
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newDefaultApp(t *testing.T) (*App, *recorder) {
	t.Helper()
	a := New(Config{})
	a.Library().Replace(pose.DefaultDefinitions())
	rec := &recorder{}
	a.OnPose(rec.record)
	return a, rec
}

func TestApp_Process_EdgeTriggered(t *testing.T) {
	a, rec := newDefaultApp(t)
	ctx := context.Background()

	thumbsUp := pose.ThumbsUpSample()
	fist := pose.FistSample()

	for _, s := range []*pose.HandSample{&thumbsUp, &thumbsUp, &fist, &fist, &thumbsUp} {
		_, err := a.Process(ctx, s)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"right:thumbsUp", "right:fist", "right:thumbsUp"}, rec.poses())
}

func TestApp_Process_PerHand(t *testing.T) {
	a, rec := newDefaultApp(t)
	ctx := context.Background()

	right := pose.ThumbsUpSample()
	left := pose.Mirror(right)

	for _, s := range []*pose.HandSample{&right, &left, &right, &left} {
		matched, err := a.Process(ctx, s)
		require.NoError(t, err)
		require.NotNil(t, matched)
		assert.Equal(t, "thumbsUp", matched.Name)
	}

	assert.Equal(t, []string{"right:thumbsUp", "left:thumbsUp"}, rec.poses())
}

func TestApp_Process_NoMatchResetsHand(t *testing.T) {
	a := New(Config{})
	a.Library().Replace([]pose.Definition{pose.DefaultDefinitions()[0]}) // thumbsUp only
	rec := &recorder{}
	a.OnPose(rec.record)
	ctx := context.Background()

	thumbsUp := pose.ThumbsUpSample()
	fist := pose.FistSample()

	_, err := a.Process(ctx, &thumbsUp)
	require.NoError(t, err)
	matched, err := a.Process(ctx, &fist)
	require.NoError(t, err)
	assert.Nil(t, matched)
	_, err = a.Process(ctx, &thumbsUp)
	require.NoError(t, err)

	assert.Equal(t, []string{"right:thumbsUp", "right:thumbsUp"}, rec.poses())
}

func TestApp_Process_Disabled(t *testing.T) {
	a, rec := newDefaultApp(t)
	require.NoError(t, a.SetEnabled(false))

	s := pose.ThumbsUpSample()
	matched, err := a.Process(context.Background(), &s)
	require.NoError(t, err)
	assert.Nil(t, matched)
	assert.Empty(t, rec.poses())

	// Disabled detection does not look at the sample at all.
	var degenerate pose.HandSample
	_, err = a.Process(context.Background(), &degenerate)
	assert.NoError(t, err)
}

func TestApp_Process_DegenerateSample(t *testing.T) {
	a, rec := newDefaultApp(t)

	s := pose.ThumbsUpSample()
	s.ThumbDirection = geometry.Vec3{}

	_, err := a.Process(context.Background(), &s)
	assert.ErrorIs(t, err, geometry.ErrDegenerateVector)
	assert.Empty(t, rec.poses())
}

func TestApp_EnabledPersists(t *testing.T) {
	s := newTestStore(t)

	a := New(Config{Store: s})
	assert.True(t, a.IsEnabled())
	require.NoError(t, a.SetEnabled(false))

	assert.False(t, New(Config{Store: s}).IsEnabled())
}

func TestApp_LoadPoses(t *testing.T) {
	s := newTestStore(t)
	for i, def := range pose.DefaultDefinitions() {
		require.NoError(t, s.Poses().Create(&store.Pose{
			ID:         def.Name,
			Name:       def.Name,
			Definition: def,
			Enabled:    def.Name != "okay",
			Ordinal:    i + 1,
		}))
	}

	a := New(Config{Store: s})
	require.NoError(t, a.LoadPoses())

	var names []string
	for _, def := range a.Library().List() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"thumbsUp", "openPalm", "point", "fist"}, names)
}

func TestApp_LoadPoses_NoStore(t *testing.T) {
	a := New(Config{})
	assert.NoError(t, a.LoadPoses())
	assert.Equal(t, 0, a.Library().Len())
}

// dispatchFixture wires a store, a plugin that records its request, and an
// App bound to both.
type dispatchFixture struct {
	app     *App
	store   *store.Store
	outFile string
	events  *recorder
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	pluginRoot := t.TempDir()
	pluginDir := filepath.Join(pluginRoot, "recorder")
	require.NoError(t, os.MkdirAll(pluginDir, 0755))

	outFile := filepath.Join(t.TempDir(), "requests.ndjson")
	script := "#!/bin/sh\ncat >> " + outFile + "\necho >> " + outFile + "\necho '{\"success\":true}'\n"
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte(script), 0755))

	manifest, _ := json.Marshal(plugin.Manifest{Name: "recorder", Executable: "run.sh", Actions: []string{"record"}})
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, plugin.ManifestFile), manifest, 0644))

	mgr := plugin.NewManager(pluginRoot, nil)
	require.NoError(t, mgr.Discover())

	s := newTestStore(t)
	for _, def := range pose.DefaultDefinitions() {
		require.NoError(t, s.Poses().Create(&store.Pose{ID: def.Name, Name: def.Name, Definition: def, Enabled: true}))
	}

	a := New(Config{Store: s, Plugins: mgr, Executor: plugin.NewExecutor(5*time.Second, nil)})
	require.NoError(t, a.LoadPoses())
	rec := &recorder{}
	a.OnPose(rec.record)

	return &dispatchFixture{app: a, store: s, outFile: outFile, events: rec}
}

func (f *dispatchFixture) requests(t *testing.T) []plugin.Request {
	t.Helper()
	data, err := os.ReadFile(f.outFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)

	var out []plugin.Request
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var req plugin.Request
		require.NoError(t, dec.Decode(&req))
		out = append(out, req)
	}
	return out
}

func TestApp_DispatchesBoundAction(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.store.Actions().Create(&store.Action{
		ID:         "a1",
		PoseID:     "thumbsUp",
		PluginName: "recorder",
		ActionName: "record",
		Config:     json.RawMessage(`{"volume":3}`),
		Enabled:    true,
	}))

	ctx := context.Background()
	thumbsUp := pose.ThumbsUpSample()
	fist := pose.FistSample()
	for _, s := range []*pose.HandSample{&thumbsUp, &thumbsUp, &fist} {
		_, err := f.app.Process(ctx, s)
		require.NoError(t, err)
	}

	reqs := f.requests(t)
	require.Len(t, reqs, 1, "only the first thumbsUp is dispatched and fist is unbound")
	assert.Equal(t, "record", reqs[0].Action)
	assert.Equal(t, "thumbsUp", reqs[0].Pose)
	assert.Equal(t, "right", reqs[0].Hand)
	assert.JSONEq(t, `{"volume":3}`, string(reqs[0].Config))

	require.Len(t, f.events.events, 2)
	assert.Equal(t, "recorder", f.events.events[0].Plugin)
	assert.Empty(t, f.events.events[0].Error)
	assert.Empty(t, f.events.events[1].Plugin)
}

func TestApp_DispatchSkipsDisabledAction(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.store.Actions().Create(&store.Action{
		ID: "a1", PoseID: "fist", PluginName: "recorder", ActionName: "record", Enabled: false,
	}))

	s := pose.FistSample()
	_, err := f.app.Process(context.Background(), &s)
	require.NoError(t, err)
	assert.Empty(t, f.requests(t))
}

func TestApp_DispatchReportsUnknownPlugin(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.store.Actions().Create(&store.Action{
		ID: "a1", PoseID: "fist", PluginName: "missing", ActionName: "record", Enabled: true,
	}))

	s := pose.FistSample()
	_, err := f.app.Process(context.Background(), &s)
	require.NoError(t, err, "dispatch failures do not fail detection")

	require.Len(t, f.events.events, 1)
	assert.Contains(t, f.events.events[0].Error, plugin.ErrPluginNotFound.Error())
}

func TestApp_DispatchSkipsPoseRemovedSinceLoad(t *testing.T) {
	f := newDispatchFixture(t)
	require.NoError(t, f.store.Actions().Create(&store.Action{
		ID: "a1", PoseID: "fist", PluginName: "recorder", ActionName: "record", Enabled: true,
	}))
	require.NoError(t, f.store.Poses().Delete("fist"))

	s := pose.FistSample()
	matched, err := f.app.Process(context.Background(), &s)
	require.NoError(t, err)
	require.NotNil(t, matched, "library still holds fist until reloaded")

	assert.Empty(t, f.requests(t))
	require.Len(t, f.events.events, 1)
	assert.Empty(t, f.events.events[0].Plugin)
	assert.Empty(t, f.events.events[0].Error)
}

func TestApp_ProcessFrame(t *testing.T) {
	a, _ := newDefaultApp(t)

	bad := tracking.ThumbsUpLandmarks()
	bad.Handedness = "Both"

	frame := tracking.Frame{
		Head: tracking.DefaultHead,
		Hands: []tracking.HandLandmarks{
			tracking.ThumbsUpLandmarks(),
			tracking.MirrorLandmarks(tracking.OpenPalmLandmarks()),
			bad,
		},
	}

	got := a.ProcessFrame(context.Background(), frame)
	require.Len(t, got, 3)
	assert.Equal(t, Detection{Hand: "right", Matched: true, Pose: "thumbsUp", New: true}, got[0])
	assert.Equal(t, Detection{Hand: "left", Matched: true, Pose: "openPalm", New: true}, got[1])
	assert.Equal(t, "Both", got[2].Hand)
	assert.Contains(t, got[2].Error, tracking.ErrUnknownHandedness.Error())

	again := a.ProcessFrame(context.Background(), frame)
	assert.False(t, again[0].New)
	assert.True(t, again[0].Matched)
}

func TestApp_Classify_NewMatchesEventsUnderConcurrency(t *testing.T) {
	a, rec := newDefaultApp(t)
	ctx := context.Background()

	thumbsUp := pose.ThumbsUpSample()
	fist := pose.FistSample()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := &thumbsUp
				if (i+g)%2 == 0 {
					s = &fist
				}
				d := a.Classify(ctx, s)
				if d.New {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Positive(t, fresh)
	assert.Equal(t, fresh, len(rec.poses()))
}
