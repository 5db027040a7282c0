package player

import "sphere-trail/internal/vmath"

// State is the player record handed from one controller to the next on a scene switch.
// Controllers never share a State: ExportState deep-copies it, Extra included.
type State struct {
	// Direction is the facing the next tick will use.
	Direction vmath.Vec3 `json:"direction"`
	// LastPosition is the player position captured at the start of the latest tick.
	LastPosition vmath.Vec3 `json:"lastPosition"`
	// HasLast is false until the first tick has run.
	HasLast bool `json:"hasLast"`
	// LatestPosition is the live position at export time.
	LatestPosition vmath.Vec3 `json:"latestPosition"`
	// Steps counts ticks applied across every controller that carried this state.
	Steps uint64 `json:"steps"`
	// Extra holds free-form fields other systems attach to the player. It travels with the
	// state across switches and saves; values should be JSON-encodable.
	Extra map[string]any `json:"extra,omitempty"`
}
