package catalog

// Riddle is one gate challenge. The pool is smaller than the journey and
// cycles; answers are matched after trim+lowercase normalization.
type Riddle struct {
	Question string `json:"question"`
	Answer   string `json:"-"`
}

var riddles = []Riddle{
	{
		Question: "I am the thing you give me without moving a muscle, and the reason I built this world for you. What is the only currency accepted here?",
		Answer:   "love",
	},
	{
		Question: "A conversation in the dark, where voices are silent but bodies speak in rhythms. What am I?",
		Answer:   "sex",
	},
	{
		Question: "A fire that needs no wood, only a spark between two souls. What am I?",
		Answer:   "passion",
	},
	{
		Question: "I build a bridge of sound and meaning where silence once stood. What am I?",
		Answer:   "communication",
	},
	{
		Question: "A mirror that never lies, even when the reflection is painful to see in the rain. What am I?",
		Answer:   "honesty",
	},
	{
		Question: "The balance that keeps two paths close, yet separate. What am I?",
		Answer:   "independence",
	},
	{
		Question: "I treat your limits as real and your voice as equal to mine. What am I?",
		Answer:   "respect",
	},
	{
		Question: "I am the choice to stand in the same place, even as the ground shifts. What am I?",
		Answer:   "loyalty",
	},
}

// completedRiddle is shown once the whole journey is sealed; any non-empty
// answer unlocks it.
var completedRiddle = Riddle{
	Question: "The vault is open. The memories are yours forever.",
	Answer:   "always",
}

// RiddleForDay returns the gate riddle for a 1-based journey day, cycling
// through the pool.
func RiddleForDay(day int) Riddle {
	if day < 1 {
		day = 1
	}
	return riddles[(day-1)%len(riddles)]
}

// CompletedRiddle returns the sentinel riddle for a sealed journey.
func CompletedRiddle() Riddle {
	return completedRiddle
}

// RiddleCount returns the size of the riddle pool.
func RiddleCount() int {
	return len(riddles)
}
