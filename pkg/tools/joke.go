package tools

import "math/rand/v2"

// Jokes is the fixed list the joke tool picks from.
var Jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"I told my computer I needed a break, and it said: no problem, I'll go to sleep.",
	"Why did the developer go broke? Because they used up all their cache.",
	"There are 10 kinds of people in the world: those who understand binary and those who don't.",
	"A SQL query walks into a bar, walks up to two tables and asks: can I join you?",
	"Why was the JavaScript developer sad? Because they didn't Node how to Express themselves.",
	"Debugging: being the detective in a crime movie where you are also the murderer.",
}

// JokePicker chooses a joke uniformly at random.
type JokePicker struct {
	intn func(n int) int
}

// NewJokePicker creates a picker. A nil intn uses math/rand/v2.
func NewJokePicker(intn func(n int) int) *JokePicker {
	if intn == nil {
		intn = rand.IntN
	}
	return &JokePicker{intn: intn}
}

// Pick returns one joke.
func (p *JokePicker) Pick() string {
	return Jokes[p.intn(len(Jokes))]
}
