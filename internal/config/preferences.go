package config

// Preference keys persisted between sessions.
const (
	PrefLongGameList  = "lobby.long_game_list"
	PrefLastGroupRoom = "lobby.last_group_room"
)

// Preferences is the subset of fyne.Preferences the lobby uses.
type Preferences interface {
	Bool(key string) bool
	SetBool(key string, value bool)
	Int(key string) int
	SetInt(key string, value int)
}

// MemoryPreferences keeps preferences in a map. Used when no app storage
// is available and in tests.
type MemoryPreferences struct {
	bools map[string]bool
	ints  map[string]int
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{
		bools: make(map[string]bool),
		ints:  make(map[string]int),
	}
}

func (p *MemoryPreferences) Bool(key string) bool { return p.bools[key] }

func (p *MemoryPreferences) SetBool(key string, value bool) { p.bools[key] = value }

func (p *MemoryPreferences) Int(key string) int { return p.ints[key] }

func (p *MemoryPreferences) SetInt(key string, value int) { p.ints[key] = value }
