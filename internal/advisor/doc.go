// Package advisor serves as an umbrella for the build-counsel engine:
// deterministic option ranking and mentor-voiced explanations for a
// character under construction.
//
// The engine is read-only with respect to the actor. It is organized into
// leaf-first subpackages:
//   - option: candidate build options and the player's declared intent.
//   - snapshot: a flattened, per-request view of the actor's current state.
//   - prereq: multi-source prerequisite resolution and validation.
//   - registry: immutable archetype and talent-tree content caches.
//   - reason: reason codes and the textless fact signals behind a ranking.
//   - tier: the ordered evaluator walk that assigns tier and confidence.
//   - mentor: semantic atoms, intensity banding, and phrase rendering.
//   - service: pool evaluation, ordering, and tracing.
//
// Data flows strictly upward through that list; nothing downstream mutates
// anything upstream.
package advisor
