package simulation

const (
	ViewportWidth  = 1000.0
	ViewportHeight = 800.0

	DefaultFPS     = 60
	DefaultGravity = 1000.0
	MaxGravity     = 1500.0

	DefaultRadius = 20.0
	MinRadius     = 10.0
	MaxRadius     = 75.0

	MaxInitialSpeed = 500.0 // per axis
)
