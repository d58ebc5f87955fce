package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/logger"
)

// stubComponent 记录生命周期调用顺序的测试组件
type stubComponent struct {
	name     string
	deps     []string
	initErr  error
	startErr error

	mu     *sync.Mutex
	events *[]string
}

func newStub(name string, deps []string, mu *sync.Mutex, events *[]string) *stubComponent {
	return &stubComponent{name: name, deps: deps, mu: mu, events: events}
}

func (s *stubComponent) Name() string        { return s.name }
func (s *stubComponent) DependsOn() []string { return s.deps }

func (s *stubComponent) record(event string) {
	if s.events == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.events = append(*s.events, s.name+":"+event)
}

func (s *stubComponent) Init(_ context.Context, _ component.ConfigLoader) error {
	s.record("init")
	return s.initErr
}

func (s *stubComponent) Start(_ context.Context) error {
	s.record("start")
	return s.startErr
}

func (s *stubComponent) Stop(_ context.Context) error {
	s.record("stop")
	return nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	comp := newStub("alpha", nil, nil, nil)

	require.NoError(t, r.Register(comp))
	assert.True(t, r.Has("alpha"))

	got, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Same(t, comp, got)

	// 重名注册被拒
	assert.Error(t, r.Register(newStub("alpha", nil, nil, nil)))
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newStub("", nil, nil, nil)))
}

func TestMustRegister_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newStub("alpha", nil, nil, nil))

	assert.Panics(t, func() {
		r.MustRegister(newStub("alpha", nil, nil, nil))
	})
}

func TestMustGet_MissingPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.MustGet("missing") })
}

func TestGetTyped(t *testing.T) {
	r := NewRegistry()
	comp := newStub("alpha", nil, nil, nil)
	r.MustRegister(comp)

	typed, ok := GetTyped[*stubComponent](r, "alpha")
	require.True(t, ok)
	assert.Same(t, comp, typed)

	_, ok = GetTyped[*stubComponent](r, "missing")
	assert.False(t, ok)
}

func TestSetLogger_DoubleSetPanics(t *testing.T) {
	r := NewRegistry()
	log := logger.NewCtxZapLogger("registry-test")

	r.SetLogger(log)
	assert.Panics(t, func() { r.SetLogger(log) })
}

func TestResolveLayers(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newStub("config", nil, nil, nil))
	r.MustRegister(newStub("logger", []string{"config"}, nil, nil))
	r.MustRegister(newStub("redis", []string{"config", "logger"}, nil, nil))
	r.MustRegister(newStub("http", []string{"redis"}, nil, nil))

	layers, err := r.ResolveLayers()
	require.NoError(t, err)
	require.Len(t, layers, 4)
	assert.Equal(t, "config", layers[0][0].Name())
	assert.Equal(t, "logger", layers[1][0].Name())
	assert.Equal(t, "redis", layers[2][0].Name())
	assert.Equal(t, "http", layers[3][0].Name())
}

func TestResolveLayers_MissingDependency(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newStub("http", []string{"redis"}, nil, nil))

	_, err := r.ResolveLayers()
	assert.Error(t, err)
}

func TestResolveLayers_Cycle(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newStub("alpha", []string{"beta"}, nil, nil))
	r.MustRegister(newStub("beta", []string{"alpha"}, nil, nil))

	_, err := r.ResolveLayers()
	assert.Error(t, err)
}

func TestLifecycleOrder(t *testing.T) {
	var mu sync.Mutex
	var events []string

	r := NewRegistry()
	r.MustRegister(newStub("config", nil, &mu, &events))
	r.MustRegister(newStub("redis", []string{"config"}, &mu, &events))
	r.MustRegister(newStub("http", []string{"redis"}, &mu, &events))

	ctx := context.Background()
	require.NoError(t, r.Init(ctx, nil))
	require.NoError(t, r.Start(ctx))
	require.NoError(t, r.Stop(ctx))

	assert.Equal(t, []string{
		"config:init", "redis:init", "http:init",
		"config:start", "redis:start", "http:start",
		"http:stop", "redis:stop", "config:stop",
	}, events)
}

func TestInit_FailureStopsLaterLayers(t *testing.T) {
	var mu sync.Mutex
	var events []string

	r := NewRegistry()
	failing := newStub("config", nil, &mu, &events)
	failing.initErr = errors.New("boom")
	r.MustRegister(failing)
	r.MustRegister(newStub("redis", []string{"config"}, &mu, &events))

	err := r.Init(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
	assert.Equal(t, []string{"config:init"}, events)
}

func TestStart_FailurePropagates(t *testing.T) {
	r := NewRegistry()
	failing := newStub("config", nil, nil, nil)
	failing.startErr = errors.New("boom")
	r.MustRegister(failing)

	assert.Error(t, r.Start(context.Background()))
}
