package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/Carmen-Shannon/oxy-frontier/engine/scene"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// DefaultTuningPath is the optional gameplay constants file.
const DefaultTuningPath = "tuning.toml"

// Tuning holds gameplay constants that can be overridden from tuning.toml. Angles are in degrees.
type Tuning struct {
	Sun    SunTuning    `toml:"sun"`
	Player PlayerTuning `toml:"player"`
	Rig    RigTuning    `toml:"rig"`
}

type SunTuning struct {
	Latitude    float32 `toml:"latitude"`
	Declination float32 `toml:"declination"`
	UTCOffset   float32 `toml:"utc_offset"`
	Radius      float32 `toml:"radius"`
	Intensity   float32 `toml:"intensity"`
	DayLength   float32 `toml:"day_length"`
	TimeScale   float32 `toml:"time_scale"`
	StartHour   float32 `toml:"start_hour"`
}

type PlayerTuning struct {
	Speed         float32 `toml:"speed"`
	RotationSpeed float32 `toml:"rotation_speed"`
	JumpVelocity  float32 `toml:"jump_velocity"`
	Gravity       float32 `toml:"gravity"`
	MaxStep       float32 `toml:"max_step"`
}

type RigTuning struct {
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
	ScrollStep       float32 `toml:"scroll_step"`
	FlySpeed         float32 `toml:"fly_speed"`
	FlyBoost         float32 `toml:"fly_boost"`
}

// DefaultTuning returns the built-in gameplay constants.
func DefaultTuning() Tuning {
	sun := light.DefaultSunParams()
	return Tuning{
		Sun: SunTuning{
			Latitude:    mgl32.RadToDeg(sun.Latitude),
			Declination: mgl32.RadToDeg(sun.Declination),
			UTCOffset:   sun.UTCOffset,
			Radius:      sun.Radius,
			Intensity:   sun.Intensity,
			DayLength:   timer.DefaultDayLength,
			TimeScale:   timer.DefaultTimeScale,
			StartHour:   11,
		},
		Player: PlayerTuning{
			Speed:         game_object.DefaultSpeed,
			RotationSpeed: mgl32.RadToDeg(game_object.DefaultRotationSpeed),
			JumpVelocity:  game_object.DefaultJumpVelocity,
			Gravity:       -scene.DefaultGravity.Y(),
			MaxStep:       scene.DefaultMaxStep,
		},
		Rig: RigTuning{
			MouseSensitivity: 0.005,
			ScrollStep:       0.5,
			FlySpeed:         10,
			FlyBoost:         5,
		},
	}
}

// ParseTuning decodes TOML over the defaults. Keys that are absent keep their default; unknown
// keys are an error.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - Tuning: the merged constants
//   - error: if the document is malformed or out of range
func ParseTuning(r io.Reader) (Tuning, error) {
	t := DefaultTuning()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&t); err != nil {
		return DefaultTuning(), fmt.Errorf("config: failed to decode tuning: %w", err)
	}
	if err := t.validate(); err != nil {
		return DefaultTuning(), err
	}
	return t, nil
}

// LoadTuning reads path with ParseTuning. A missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTuning(), nil
	}
	if err != nil {
		return DefaultTuning(), fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	t, err := ParseTuning(bytes.NewReader(data))
	if err != nil {
		return t, fmt.Errorf("%w (%s)", err, path)
	}
	return t, nil
}

// Marshal encodes the constants as TOML.
func (t Tuning) Marshal() ([]byte, error) {
	data, err := toml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("config: failed to encode tuning: %w", err)
	}
	return data, nil
}

func (t Tuning) validate() error {
	switch {
	case t.Sun.DayLength <= 0:
		return fmt.Errorf("config: sun.day_length must be positive, got %v", t.Sun.DayLength)
	case t.Sun.TimeScale < 0:
		return fmt.Errorf("config: sun.time_scale must not be negative, got %v", t.Sun.TimeScale)
	case t.Player.Speed < 0 || t.Player.RotationSpeed < 0 || t.Player.MaxStep < 0:
		return errors.New("config: player speeds and max_step must not be negative")
	case t.Rig.ScrollStep < 0 || t.Rig.FlySpeed < 0 || t.Rig.FlyBoost < 0:
		return errors.New("config: rig steps and speeds must not be negative")
	}
	return nil
}

// SunParams converts the sun section.
func (t Tuning) SunParams() light.SunParams {
	return light.SunParams{
		Radius:      t.Sun.Radius,
		Latitude:    mgl32.DegToRad(t.Sun.Latitude),
		Declination: mgl32.DegToRad(t.Sun.Declination),
		UTCOffset:   t.Sun.UTCOffset,
		Intensity:   t.Sun.Intensity,
	}
}

// DayClockOptions configures a DayClock from the sun section.
func (t Tuning) DayClockOptions() []timer.DayClockBuilderOption {
	return []timer.DayClockBuilderOption{
		timer.WithDayLength(t.Sun.DayLength),
		timer.WithTimeScale(t.Sun.TimeScale),
		timer.WithTimeOfDay(t.Sun.StartHour * 3600),
	}
}

// PlayerOptions configures a Player from the player section.
func (t Tuning) PlayerOptions() []game_object.PlayerBuilderOption {
	return []game_object.PlayerBuilderOption{
		game_object.WithSpeed(t.Player.Speed),
		game_object.WithRotationSpeed(mgl32.DegToRad(t.Player.RotationSpeed)),
		game_object.WithJumpVelocity(t.Player.JumpVelocity),
	}
}

// RigOptions configures the camera-follow rig from the rig section.
func (t Tuning) RigOptions() []camera.RigBuilderOption {
	return []camera.RigBuilderOption{
		camera.WithMouseSensitivity(t.Rig.MouseSensitivity),
		camera.WithScrollStep(t.Rig.ScrollStep),
		camera.WithFlySpeed(t.Rig.FlySpeed, t.Rig.FlyBoost),
	}
}

// SceneOptions returns the scene-level options: gravity, step height, sun constants and rig.
func (t Tuning) SceneOptions() []scene.SceneBuilderOption {
	return []scene.SceneBuilderOption{
		scene.WithGravity(mgl32.Vec3{0, -t.Player.Gravity, 0}),
		scene.WithMaxStep(t.Player.MaxStep),
		scene.WithSunParams(t.SunParams()),
		scene.WithRigOptions(t.RigOptions()...),
	}
}
