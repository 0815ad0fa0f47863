// Package engine runs a two-player game as an explicit state machine. Front
// ends read state through queries or Snapshot and submit decisions with Buy,
// Pass and PlaceSpecialPatch. Each decision is validated in full before any
// state changes, then the engine walks the transient phases until it rests
// again on AwaitDecision, AwaitSpecialPatch or GameOver.
package engine
