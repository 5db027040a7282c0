package player

import "sphere-trail/internal/vmath"

// Virtual key codes for the movement keys. raylib uses the same values (rl.KeyW etc.).
const (
	KeyW int32 = 87
	KeyA int32 = 65
	KeyS int32 = 83
	KeyD int32 = 68
)

// DirectionForKey maps a movement key to its direction. ok is false for any other key,
// which callers treat as "no change": other keys are left to the camera and UI.
func DirectionForKey(code int32) (dir vmath.Vec3, ok bool) {
	switch code {
	case KeyW:
		return vmath.Forward, true
	case KeyA:
		return vmath.Left, true
	case KeyS:
		return vmath.Backward, true
	case KeyD:
		return vmath.Right, true
	default:
		return vmath.Vec3{}, false
	}
}

// KeyForRune converts a typed character (w/a/s/d in either case) to its key code.
// Used by frontends that report characters instead of key codes.
func KeyForRune(r rune) int32 {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return int32(r)
}
