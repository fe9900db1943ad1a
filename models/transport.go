package models

type TransportMode string

const (
	Unknown TransportMode = ""
	Bus     TransportMode = "bus"
	Biking  TransportMode = "biking"
	Car     TransportMode = "car"
	Walking TransportMode = "walking"
)

// VehicleProfile holds the capture defaults used when simulating a vehicle
// of a given mode.
type VehicleProfile struct {
	Mode            TransportMode
	SpeedKmh        float64
	IntervalSeconds float64
}

var profiles = map[TransportMode]VehicleProfile{
	Car:     {Mode: Car, SpeedKmh: 50, IntervalSeconds: 5},
	Bus:     {Mode: Bus, SpeedKmh: 25, IntervalSeconds: 10},
	Biking:  {Mode: Biking, SpeedKmh: 16.2, IntervalSeconds: 10},
	Walking: {Mode: Walking, SpeedKmh: 5, IntervalSeconds: 30},
}

// Profile returns the default profile for mode. ok is false for Unknown or
// unregistered modes.
func Profile(mode TransportMode) (VehicleProfile, bool) {
	p, ok := profiles[mode]
	return p, ok
}
