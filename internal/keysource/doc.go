// Package keysource turns a plural association attribute into the inputs a
// binder needs to build the attribute's foreign key.
//
// Resolution happens in two phases. While mappings are being declared, a
// PluralAttributeKeySource is created per attribute; it answers every
// question that needs only the attribute itself (value sources, referential
// action, participation defaults, explicit key name). Questions that need the
// complete schema are deferred to a ResolutionDelegate, which the binder
// invokes later with a JoinColumnResolutionContext once all tables and their
// key columns are known. Attributes without any explicitly referenced column
// get no delegate; the binder then targets the owner's primary key.
package keysource
