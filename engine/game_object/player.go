package game_object

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSpeed is the walking speed in units per second.
	DefaultSpeed float32 = 15
	// DefaultRotationSpeed is the turning speed in radians per second.
	DefaultRotationSpeed float32 = 5 * math32.Pi
	// DefaultJumpVelocity is the vertical velocity added by a jump.
	DefaultJumpVelocity float32 = 6
)

var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	localForward = mgl32.Vec3{0, 0, 1}
)

type player struct {
	*gameObject

	speed        float32
	rotSpeed     float32
	jumpVelocity float32

	walking   bool
	movingDir mgl32.Vec3
	turning   int
	grounded  bool
}

// Player is the controllable GameObject. Walking contributes speed along the facing direction
// to the velocity; the scene owns gravity and collision and reports ground contact back
// through SetGrounded.
type Player interface {
	GameObject

	// Walk faces dir and walks along it. The vertical component of dir is ignored and
	// a zero horizontal direction is a no-op.
	//
	// Parameters:
	//   - dir: world-space walking direction
	Walk(dir mgl32.Vec3)

	// Stop removes the walking contribution from the velocity.
	Stop()

	// Walking reports whether the player is walking.
	Walking() bool

	// Turn sets the turning direction. Positive rotates +Z toward +X, negative the other way,
	// zero stops turning. Only the sign of dir is used.
	//
	// Parameters:
	//   - dir: turning direction
	Turn(dir int)

	// StopTurning is Turn(0).
	StopTurning()

	// Jump adds the jump velocity when the player is grounded.
	//
	// Returns:
	//   - bool: true if the jump happened
	Jump() bool

	// Grounded reports whether the player stood on something after the last move.
	Grounded() bool

	// SetGrounded records ground contact.
	SetGrounded(g bool)

	// Facing returns the unit forward vector.
	Facing() mgl32.Vec3

	// Speed returns the walking speed.
	Speed() float32
}

var _ Player = &player{}

// NewPlayer creates a Player facing +Z. Players are not serializable.
//
// Parameters:
//   - options: functional options to configure the player
//
// Returns:
//   - Player: the newly created player
func NewPlayer(options ...PlayerBuilderOption) Player {
	p := &player{
		gameObject:   newGameObject(WithSerializable(false)),
		speed:        DefaultSpeed,
		rotSpeed:     DefaultRotationSpeed,
		jumpVelocity: DefaultJumpVelocity,
		movingDir:    localForward,
	}
	for _, option := range options {
		option(p)
	}
	p.movingDir = p.rot.Rotate(localForward)
	return p
}

func (p *player) Walk(dir mgl32.Vec3) {
	dir[1] = 0
	if dir.Len() < 1e-6 {
		return
	}
	dir = dir.Normalize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.walking {
		p.velocity = p.velocity.Sub(p.movingDir.Mul(p.speed))
	}
	p.walking = true
	p.rot = mgl32.QuatRotate(math32.Atan2(dir.X(), dir.Z()), worldUp)
	p.movingDir = p.rot.Rotate(localForward)
	p.velocity = p.velocity.Add(p.movingDir.Mul(p.speed))
}

func (p *player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.walking {
		p.velocity = p.velocity.Sub(p.movingDir.Mul(p.speed))
	}
	p.walking = false
}

func (p *player) Walking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.walking
}

// SetRotation keeps a walking player moving along its new facing.
func (p *player) SetRotation(q mgl32.Quat) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rot = q.Normalize()
	if !p.walking {
		p.movingDir = p.rot.Rotate(localForward)
		return
	}
	p.velocity = p.velocity.Sub(p.movingDir.Mul(p.speed))
	p.movingDir = p.rot.Rotate(localForward)
	p.velocity = p.velocity.Add(p.movingDir.Mul(p.speed))
}

func (p *player) Turn(dir int) {
	switch {
	case dir > 0:
		dir = 1
	case dir < 0:
		dir = -1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rotVelocity += float32(dir-p.turning) * p.rotSpeed
	p.turning = dir
}

func (p *player) StopTurning() {
	p.Turn(0)
}

func (p *player) Jump() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.grounded {
		return false
	}
	p.velocity[1] += p.jumpVelocity
	p.grounded = false
	return true
}

func (p *player) Grounded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grounded
}

func (p *player) SetGrounded(g bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grounded = g
}

func (p *player) Facing() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rot.Rotate(localForward)
}

func (p *player) Speed() float32 {
	return p.speed
}
