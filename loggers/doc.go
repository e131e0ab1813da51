// Package loggers provides hooks that log everything that happens during a conversation run.
//
//   - [YAMLHook]: human-readable transcript, every event as a YAML block
//   - [ZapHook]: one structured zap entry per event
//
// Both implement every hook interface in package duet. Register them like any other hook:
//
//	registry := hooks.NewRegistry().
//	    Register(loggers.NewYAMLHook(logFile)).
//	    Register(loggers.NewZapHook(zap.NewExample()))
package loggers
