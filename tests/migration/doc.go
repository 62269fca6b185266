/*
Package migration provides framework to test that world snapshots stay usable
by the current programs.

Programs store sensitive state of the world: spaces, their owners, canvas
frames and leases. Record layouts evolve, so the state pulled from a running
world must remain readable and operable without loss. The package restores
snapshots made by the dump package into the test chain and exposes the usual
test World over them.
*/
package migration
