// Package eval provides the evaluation context a conversation runs in.
//
// A [Scenario] prepares an environment, hands out the task prompt and the tools of the
// environment, and grades the final answer. [Start] runs the scenario setup and returns a
// [Context] that implements [duet.EvalContext]:
//
//	evalCtx, err := eval.Start(ctx, bulb.NewScenario(backend))
//	if err != nil {
//	    return err
//	}
//	defer evalCtx.Close(ctx)
//
//	trace, err := conversation.Run(ctx, evalCtx, agent, user, conversation.DefaultConfig())
//	fmt.Println(evalCtx.Reward(), evalCtx.Success())
//
// Submitting grades the answer. A Context accepts one submission; later ones fail with
// [ErrAlreadySubmitted]. [NewContext] creates a context without a scenario, for free-form
// conversations that are not graded.
package eval
