package locomotion

const (
	// A grounded character falling faster than this has its velocity reset.
	groundedResetThreshold = -6.0
	// Kept slightly negative so the ground probe keeps triggering next tick.
	groundedResetVelocity = -3.0
	// Continuous grounded time before the gravity multiplier engages.
	heavyGravityDelay = 0.5
	// Jump impulse is height / jumpRiseTime.
	jumpRiseTime = 0.5

	kneeRisingDuration     = 0.2
	kneeAdvancingDuration  = 0.5
	waistRisingDuration    = 1.1
	waistAdvancingDuration = 0.3

	phaseEpsilon      = 1e-9
	smoothDampMinTime = 0.0001
)
