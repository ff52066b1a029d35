package component

// Health may drop below zero internally; anything <= 0 counts as dead.
type Health struct {
	Current int
	Max     int
}

func (h *Health) Dead() bool {
	return h.Current <= 0
}

var HealthComponent = NewComponent[Health]()

// Helmet is a cosmetic piece that is knocked off the first time health falls
// below half. It never comes back.
type Helmet struct {
	Hidden bool
}

var HelmetComponent = NewComponent[Helmet]()
