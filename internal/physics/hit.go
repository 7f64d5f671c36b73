package physics

// Hit is the result of a successful ray query.
type Hit struct {
	Point    Vec3
	Normal   Vec3
	Distance float64
	// Object is the struck collider's owner; callers discover capabilities by type assertion.
	Object any
}
