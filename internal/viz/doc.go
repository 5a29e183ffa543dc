// Package viz is the terminal front end: a bubbletea live view of one engine
// drawn on a braille [Canvas], and an [App] menu for picking an engine and preset.
//
// The physics runs on fixed ticks from a sim.Runner; the view only reads
// engine state and the trail, phase and event observers it registers.
//
// # Key Bindings
//
//	Space - Start/Pause
//	R     - Reset state and parameters
//	N     - Single step
//	Tab   - Select parameter, Up/Down to tune
//	+/-   - Simulation speed
//	T     - Cycle colour themes
//	E     - Toggle energy plot
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
