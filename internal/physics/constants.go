package physics

const (
	// Tolerance is the distance below which two coordinates are treated as equal.
	Tolerance = 1e-9

	// NormalizeEpsilon matches the engine convention: vectors shorter than this normalize to zero.
	NormalizeEpsilon = 1e-5
)

var (
	Up      = Vec3{Y: 1}
	Down    = Vec3{Y: -1}
	Forward = Vec3{Z: 1}
	Right   = Vec3{X: 1}
)
