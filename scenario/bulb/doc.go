// Package bulb implements the two-switch bulb scenario.
//
// # Situation
//
// A bulb is wired to two switches. The primary agent controls agent_switch, the simulated user
// controls user_switch, and the bulb lights if and only if both are on. Neither side knows the
// initial switch positions, so the two have to cooperate: flip, ask, check, repeat.
//
// # Backends
//
// A [Backend] holds the switch state. [MemoryBackend] keeps it in process; [HTTPBackend] talks
// to the two toggle services of the bulb environment (agent side on port 8001, user side
// on port 8002).
//
// # Tools
//
//   - agent_switch: flips the agent's switch
//   - user_switch: flips the user's switch
//   - check_status: reports whether the bulb is ON or OFF
//
// # Grading
//
// [Scenario] resets both switches during setup and grades the run by the bulb alone: reward
// 1.0 if it is on, 0.0 otherwise. The final answer text is not graded.
package bulb
