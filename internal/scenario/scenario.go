// Package scenario lists the built-in CPR training scenarios.
package scenario

// Scenario describes a training setup.
type Scenario struct {
	Name         string
	Description  string
	TargetRate   int
	Depth        string
	HandPosition string
	Instructions string
}

// Default is the scenario used when none or an unknown one is requested.
const Default = "Basic Adult CPR"

var catalogue = []Scenario{
	{
		Name:         "Basic Adult CPR",
		Description:  "Standard adult CPR with 30:2 compression-ventilation ratio",
		TargetRate:   110,
		Depth:        "At least 2 inches (5 cm)",
		HandPosition: "Center of chest between nipples",
		Instructions: "Allow complete chest recoil between compressions",
	},
	{
		Name:         "Infant CPR",
		Description:  "CPR for infants under 1 year",
		TargetRate:   110,
		Depth:        "At least 1.5 inches (4 cm)",
		HandPosition: "Two fingers just below nipple line",
		Instructions: "Use gentle head tilt for airway opening",
	},
	{
		Name:         "Emergency Response",
		Description:  "High-stress emergency scenario",
		TargetRate:   115,
		Depth:        "At least 2 inches (5 cm)",
		HandPosition: "Center of chest between nipples",
		Instructions: "Focus on rapid response and calling for help",
	},
	{
		Name:         "Team CPR",
		Description:  "Team-based CPR with role rotation",
		TargetRate:   110,
		Depth:        "At least 2 inches (5 cm)",
		HandPosition: "Center of chest between nipples",
		Instructions: "Practice communication and smooth transitions",
	},
}

// All returns every scenario in catalogue order.
func All() []Scenario {
	return append([]Scenario(nil), catalogue...)
}

// Names returns scenario names in catalogue order.
func Names() []string {
	out := make([]string, len(catalogue))
	for i, s := range catalogue {
		out[i] = s.Name
	}
	return out
}

// Lookup returns the named scenario, falling back to Default.
func Lookup(name string) (Scenario, bool) {
	for _, s := range catalogue {
		if s.Name == name {
			return s, true
		}
	}
	return catalogue[0], false
}
