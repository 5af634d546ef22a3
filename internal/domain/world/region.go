package world

// Region is one of the four quadrants of the map.
type Region string

const (
	Forest   Region = "forest"
	Swamp    Region = "swamp"
	Plains   Region = "plains"
	Mountain Region = "mountain"
)

var regionDescriptions = map[Region]string{
	Forest:   "You are surrounded by ancient trees. The air smells of moss and damp earth.",
	Mountain: "Rocky cliffs loom overhead. The path is steep and treacherous.",
	Swamp:    "The ground squelches beneath your feet. You hear the distant croak of frogs.",
	Plains:   "Open fields stretch as far as the eye can see. The wind whispers through the grass.",
}

// Description is the flavour text shown when entering the region.
func (r Region) Description() string {
	return regionDescriptions[r]
}

// Regions lists the quadrants in generation order.
func Regions() []Region {
	return []Region{Forest, Swamp, Plains, Mountain}
}

var ambience = []string{
	"You hear faint noises.",
	"The path ahead looks challenging.",
	"It's eerily quiet.",
}
