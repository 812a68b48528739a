// Package viz is the terminal host for a reaction-diffusion session.
//
// The field is drawn either as colored half blocks, one character per grid
// column and two grid rows, or as a braille mask of B at 2x4 cells per
// character ([Canvas]). A sidebar shows frame stats, the dissolve timer and
// a coverage history.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed
//	D     - Dissolve now
//	P     - Next pastel
//	C     - Cycle colormap
//	M     - Toggle braille mask
//	T     - Cycle themes
//	G     - Toggle GIF recording
//	S     - Save PNG snapshot
//	?     - Help overlay
//
// Dragging with the left button injects B under the cursor.
package viz
