// Package workflow drives queue items through the identification and
// organization stages. Processing is serial: one item moves through one
// stage at a time, and a failure marks that item and moves on so a single
// bad file never halts monitoring.
package workflow
