// Package render turns a reaction-diffusion field into pixels.
//
// The default shading blends each channel linearly from white (A = 1) to
// the session's pastel color (A = 0). A named colorgrad colormap can be
// selected instead with [Renderer.WithColormap].
package render
