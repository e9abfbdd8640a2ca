// Package registry models the smart-home accessory registry that the audit
// reconciles against the lighting controller's device list.
//
// The registry itself is an external collaborator - a home app's accessory
// database. This package consumes it strictly as a read-only snapshot of
// accessory records; nothing here writes back. The usual source is a YAML
// export produced by the companion app, loaded with FileSource.
package registry
