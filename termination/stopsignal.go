package termination

import "strings"

// StopToken is the default token a counterpart emits to end a conversation.
const StopToken = "###STOP###"

// Detector reports whether a counterpart reply signals the end of a conversation.
type Detector interface {
	Detect(text string) bool
}

// StopSignal implements [Detector] with a raw substring match.
//
// # Creating and Configuring
//
//	// Default token "###STOP###"
//	det := termination.NewStopSignal()
//
//	// Custom token
//	det := termination.NewStopSignal().WithToken("<<END>>")
//
// An empty token never matches.
type StopSignal struct {
	token string
}

// NewStopSignal creates a StopSignal using [StopToken].
func NewStopSignal() *StopSignal {
	return &StopSignal{token: StopToken}
}

// WithToken sets the token to look for.
func (s *StopSignal) WithToken(token string) *StopSignal {
	s.token = token
	return s
}

// Token returns the token this detector looks for.
func (s *StopSignal) Token() string {
	return s.token
}

// Detect reports whether text contains the token.
func (s *StopSignal) Detect(text string) bool {
	if s.token == "" {
		return false
	}
	return strings.Contains(text, s.token)
}
