// Package mapping provides the YAML mapping format that declares entities,
// their tables and their plural associations, together with parsing,
// defaulting, validation and conversion to attribute descriptors.
//
// # Schema Overview
//
//	version: "1"
//	schema: public                   # default schema for all entities
//	entities:
//	  - name: Order
//	    table: orders                # defaults to snake_case(name)
//	    columns:
//	      - {name: id, type: bigint, nullable: false}
//	      - code                     # shorthand: name only
//	    primary_key: id              # string or list
//	    unique_keys:
//	      - {name: uk_orders_code, columns: code}
//	    collections:
//	      - name: items
//	        collection_table: order_items   # defaults to <table>_<name>
//	        columns: sku                    # the attribute's own columns
//	        join_columns:
//	          - {name: order_id, referenced_column: id}
//	        foreign_key: fk_items_order     # generated when omitted
//	        on_delete: cascade              # cascade | no_action
//	      - name: notes
//	        inverse: true                   # mapped by the other side
//
// # Forward references
//
// A collection may reference columns of an entity declared later in the
// file, or of a table that exists only in the live database. Nothing is
// looked up while loading; unknown referenced columns are reported as
// warnings by Validate and left for the binder to resolve.
//
// # Join column defaults
//
// Without join columns the key targets the owner's primary key and the
// binder infers the key column names. When no join column names a
// referenced_column, join columns pair positionally with the primary key.
// In a mixed list, a join column without referenced_column targets the
// owner's primary key, which must then be a single column.
package mapping
