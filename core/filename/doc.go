// Package filename allocates human-readable, collision-free file names for configs
// materialised from the remote service.
//
// Names are derived from the resource's display name, but the allocator is
// deliberately unaware of identity: two remote resources called "Support" become
// Support.json and Support-1.json, each recording the same display name inside.
package filename
