package models

// Side is the faction a player fields.
type Side int

const (
	SideRandom Side = iota
	SideUSA
	SideChina
	SideGLA
	SideUSASuperWeapon
	SideUSALaser
	SideUSAAirForce
	SideChinaTank
	SideChinaInfantry
	SideChinaNuke
	SideGLAToxin
	SideGLADemolition
	SideGLAStealth
	sideCount
)

var sideNames = [...]string{
	SideRandom:         "Random",
	SideUSA:            "USA",
	SideChina:          "China",
	SideGLA:            "GLA",
	SideUSASuperWeapon: "Superweapon General",
	SideUSALaser:       "Laser General",
	SideUSAAirForce:    "Air Force General",
	SideChinaTank:      "Tank General",
	SideChinaInfantry:  "Infantry General",
	SideChinaNuke:      "Nuke General",
	SideGLAToxin:       "Toxin General",
	SideGLADemolition:  "Demolition General",
	SideGLAStealth:     "Stealth General",
}

func (s Side) String() string {
	if s < 0 || s >= sideCount {
		return "Unknown"
	}
	return sideNames[s]
}

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s >= 0 && s < sideCount
}

// PlayableSides lists every side in table order, Random first.
func PlayableSides() []Side {
	sides := make([]Side, 0, sideCount)
	for s := SideRandom; s < sideCount; s++ {
		sides = append(sides, s)
	}
	return sides
}
