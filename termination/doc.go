// Package termination decides when a conversation has been signaled to end.
//
// # Overview
//
// The counterpart of a conversation ends it by including a stop token in its reply. A
// [Detector] inspects each counterpart reply and reports whether the token is present.
//
// # Available Detectors
//
//   - [StopSignal]: case-sensitive substring match on a fixed token, [StopToken] by default
//
// # Matching Rules
//
// Matching is a raw substring test. There is no trimming, case folding or Unicode
// normalization, and the token is found anywhere in the text:
//
//	det := termination.NewStopSignal()
//	det.Detect("Thanks, all done ###STOP###")  // true
//	det.Detect("thanks ###stop###")            // false
//	det.Detect("don't say ###STOP### yet")     // true
//
// The last case is a known limitation: a quoted or negated token still ends the run.
//
// # Example Usage
//
//	cfg := conversation.DefaultConfig()
//	cfg.Termination = termination.NewStopSignal().WithToken("<<END>>")
package termination
