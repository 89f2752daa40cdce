// Package handler implements the HTTP JSON API over the diagram service.
//
// # Endpoints
//
//	GET    /api/view?focus=&trace=&layout=   derived view (trace wins over focus)
//	GET    /api/snapshot                     present snapshot, ETag = content digest
//	GET    /api/history                      undo/redo availability
//	POST   /api/nodes                        add node {type, position}
//	PATCH  /api/nodes/{id}                   update label/properties
//	PUT    /api/nodes/{id}/position          move node
//	DELETE /api/nodes/{id}                   remove node and its links
//	POST   /api/links                        add link {source, target, properties}
//	DELETE /api/links/{source}/{target}      remove link
//	POST   /api/groups                       add group {label, members}
//	PATCH  /api/groups/{id}                  rename and/or set members
//	DELETE /api/groups/{id}                  remove group
//	PUT    /api/types/{type}                 register or relabel a component type
//	DELETE /api/types/{type}                 unregister a component type
//	POST   /api/undo, /api/redo
//	POST   /api/import/{format}              hard reset from json or yaml
//	GET    /api/export/{format}
//	GET    /api/snapshots                    stored snapshots
//	POST   /api/save                         store present snapshot {label}
//	POST   /api/load?id=                     hard reset from storage (latest when id is absent)
//
// Success responses return JSON with 200 or 201. Errors return JSON
// {error, details}: 400 for bad input, 404 for unknown ids, 500 otherwise.
package handler
