// Package gesture implements the Thai sign-language recognition engine:
// per-frame static classification, the dynamic gesture state machines, and
// the confirmation and completion layers on top of them.
package gesture

// ID identifies one gesture of the fixed vocabulary.
type ID string

// None is the zero ID, used where no gesture applies.
const None ID = ""

// The gesture vocabulary.
const (
	Zero     ID = "zero"
	One      ID = "one"
	Two      ID = "two"
	Three    ID = "three"
	Four     ID = "four"
	Five     ID = "five"
	Six      ID = "six"
	Seven    ID = "seven"
	Eight    ID = "eight"
	Nine     ID = "nine"
	Chan     ID = "chan"     // ฉัน, "I"
	Rak      ID = "rak"      // รัก, "love"
	Khobkhun ID = "khobkhun" // ขอบคุณ, "thank you"
	Mairepen ID = "mairepen" // ไม่เป็นไร, "never mind"
	Sabaidee ID = "sabaidee" // สบายดี, "how are you"
)

// Type represents the type of gesture (static or dynamic).
type Type string

const (
	// TypeStatic represents a gesture recognized from a single frame.
	TypeStatic Type = "static"
	// TypeDynamic represents a gesture recognized over a sequence of frames.
	TypeDynamic Type = "dynamic"
)

// Gesture describes a vocabulary entry.
type Gesture struct {
	ID    ID       `json:"id"`
	Label string   `json:"label"`
	Type  Type     `json:"type"`
	Steps []string `json:"steps,omitempty"` // display only, dynamic gestures
}

// vocabulary is in lesson order.
var vocabulary = []Gesture{
	{ID: Zero, Label: "เลข 0", Type: TypeStatic},
	{ID: One, Label: "เลข 1", Type: TypeStatic},
	{ID: Two, Label: "เลข 2", Type: TypeStatic},
	{ID: Three, Label: "เลข 3", Type: TypeStatic},
	{ID: Four, Label: "เลข 4", Type: TypeStatic},
	{ID: Five, Label: "เลข 5", Type: TypeStatic},
	{ID: Six, Label: "เลข 6", Type: TypeStatic},
	{ID: Seven, Label: "เลข 7", Type: TypeStatic},
	{ID: Eight, Label: "เลข 8", Type: TypeStatic},
	{ID: Nine, Label: "เลข 9", Type: TypeStatic},
	{ID: Chan, Label: "ฉัน", Type: TypeStatic},
	{ID: Rak, Label: "รัก", Type: TypeStatic},
	{ID: Khobkhun, Label: "ขอบคุณ", Type: TypeDynamic,
		Steps: []string{"ประนมมือไม่ชิดกัน", "แบมือออก"}},
	{ID: Mairepen, Label: "ไม่เป็นไร", Type: TypeDynamic,
		Steps: []string{"แบมือทั้ง 2 ข้างแบบในวิดีโอ", "ขยับมือเข้าออก"}},
	{ID: Sabaidee, Label: "สบายดี", Type: TypeDynamic,
		Steps: []string{"แบมือทั้ง 2 ข้าง (โป้งพับ)", "ท่าเยี่ยมทั้ง 2 ข้าง"}},
}

// Vocabulary returns a copy of all gestures in lesson order.
func Vocabulary() []Gesture {
	out := make([]Gesture, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Lookup returns the vocabulary entry for id.
func Lookup(id ID) (Gesture, bool) {
	for _, g := range vocabulary {
		if g.ID == id {
			return g, true
		}
	}
	return Gesture{}, false
}

// Label returns the display label for id, or the id itself if unknown.
func (id ID) Label() string {
	if g, ok := Lookup(id); ok {
		return g.Label
	}
	return string(id)
}

// Valid reports whether id belongs to the vocabulary.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}
