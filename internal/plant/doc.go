// Package plant models the actuated hardware the controller drives,
// so the full control loop can run host-side without a rig attached.
package plant
