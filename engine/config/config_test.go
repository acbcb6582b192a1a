package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Config
	}{
		{"empty", "", Default()},
		{"all keys", "vsync=off\nres_x=1920\nres_y=1080\n", Config{VSync: false, ResX: 1920, ResY: 1080}},
		{"crlf", "vsync=off\r\nres_x=800\r\n", Config{VSync: false, ResX: 800, ResY: 720}},
		{"malformed lines skipped", "novalue\n=on\nvsync=\nres_x=640\n", Config{VSync: true, ResX: 640, ResY: 720}},
		{"bad numbers keep prior", "res_x=abc\nres_y=0\nres_x=-5\n", Default()},
		{"bad vsync keeps prior", "vsync=maybe\n", Default()},
		{"unknown keys ignored", "fullscreen=yes\nres_y=600\n", Config{VSync: true, ResX: 1280, ResY: 600}},
		{"later lines win", "res_x=100\nres_x=200\n", Config{VSync: true, ResX: 200, ResY: 720}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input), Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.ini")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vsync=on\nres_x=1280\nres_y=720\n", string(data))
}

func TestLoadRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.ini")
	require.NoError(t, os.WriteFile(path, []byte("garbage\nres_y=900\nvsync=off\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{VSync: false, ResX: 1280, ResY: 900}, cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vsync=off\nres_x=1280\nres_y=900\n", string(data))
}

func TestReadDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.ini")
	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.ini")
	require.NoError(t, Default().Save(path))

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	want := Config{VSync: false, ResX: 1024, ResY: 768}
	// The watcher registers asynchronously; keep writing until it reports.
	require.Eventually(t, func() bool {
		_ = want.Save(path)
		for {
			select {
			case c := <-got:
				if c == want {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestParseTuning(t *testing.T) {
	doc := `
[sun]
latitude = 10.0
time_scale = 60.0

[player]
speed = 3.5
gravity = 20.0
`
	tun, err := ParseTuning(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, float32(10), tun.Sun.Latitude)
	assert.Equal(t, float32(60), tun.Sun.TimeScale)
	assert.Equal(t, float32(3.5), tun.Player.Speed)
	assert.Equal(t, float32(20), tun.Player.Gravity)

	def := DefaultTuning()
	assert.Equal(t, def.Sun.Declination, tun.Sun.Declination, "absent keys keep defaults")
	assert.Equal(t, def.Player.JumpVelocity, tun.Player.JumpVelocity)
	assert.Equal(t, def.Rig, tun.Rig)
}

func TestParseTuningErrors(t *testing.T) {
	_, err := ParseTuning(strings.NewReader("[player]\nspeeed = 3\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = ParseTuning(strings.NewReader("[sun]\nday_length = 0\n"))
	assert.ErrorContains(t, err, "day_length")

	_, err = ParseTuning(strings.NewReader("not toml ["))
	assert.Error(t, err)
}

func TestLoadTuning(t *testing.T) {
	dir := t.TempDir()
	tun, err := LoadTuning(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tun)

	path := filepath.Join(dir, "tuning.toml")
	data, err := DefaultTuning().Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	tun, err = LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tun)
}

func TestTuningConversions(t *testing.T) {
	tun := DefaultTuning()
	p := tun.SunParams()
	def := light.DefaultSunParams()
	assert.InDelta(t, def.Latitude, p.Latitude, 1e-5)
	assert.InDelta(t, def.Declination, p.Declination, 1e-5)
	assert.Equal(t, def.Intensity, p.Intensity)

	clock := timer.NewDayClock(tun.DayClockOptions()...)
	assert.InDelta(t, 11*3600, clock.TimeOfDay(), 1e-2)
	assert.Equal(t, timer.DefaultTimeScale, clock.TimeScale())

	tun.Player.Speed = 2
	player := game_object.NewPlayer(tun.PlayerOptions()...)
	assert.Equal(t, float32(2), player.Speed())

	assert.Len(t, tun.SceneOptions(), 4)
}
