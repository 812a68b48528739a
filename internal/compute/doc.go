// Package compute provides the execution backends used by the field stepper.
//
// A backend splits an index range into bands and runs a kernel over each
// band:
//
//	backend := compute.NewCPUBackend(4)
//	backend.Range(cols, func(lo, hi int) {
//	    for i := lo; i < hi; i++ { ... }
//	})
//
// The kernel must write only to indices inside its own band. The serial
// backend (one worker) runs the kernel inline on the calling goroutine.
package compute
