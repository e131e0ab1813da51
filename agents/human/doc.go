// Package human implements a participant played by a person at a terminal.
//
// Agent prints what the other participant said and reads the reply from a [LineReader],
// normally a [readline.Instance]. It is meant for the counterpart seat, so a person can stand
// in for the simulated user:
//
//	rl, _ := readline.New("You: ")
//	defer rl.Close()
//	user := human.NewAgent(rl, os.Stdout)
//	trace, err := conversation.Run(ctx, evalCtx, primary, user, conversation.DefaultConfig())
//
// Typing one of the quit words, pressing Ctrl-C or closing the input replies with the stop
// token, which ends the conversation normally.
package human
