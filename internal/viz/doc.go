// Package viz draws N-body systems in the terminal.
//
//   - [Model]: Bubble Tea live viewer stepping a simulation every frame
//   - [Orbit]: static trajectory plot from recorded snapshots
//   - [Canvas]: braille dot canvas with 2x4 dots per character
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial bodies
//	< >   - Halve/double steps per frame
//	x y   - Rotate view (shift reverses)
//	+ -   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
