package layouts

const (
	Standard2   = "2-standard"
	Sebeol390   = "3-390"
	SebeolFinal = "3-final"
)

// IDs is the fixed set of layouts the engine ships with.
var IDs = []string{Standard2, Sebeol390, SebeolFinal}

const Default = Standard2

type Header struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func Known(id string) bool {
	for _, known := range IDs {
		if known == id {
			return true
		}
	}
	return false
}
