// Package layout computes static tree coordinates for a diagram view.
//
// The input graph may be cyclic, disconnected and have several sources. It is
// first reduced to a forest (BuildForest) by a breadth-first traversal seeded from
// every node without incoming links, where the first node to discover a child
// becomes its only tree parent. Edges that would give a node a second parent,
// including cycle edges, are left out of the tree; they stay in the view's link set
// for rendering.
//
// When no node is free of incoming links the first node in input order becomes the
// root. Nodes still unreached afterwards are seeded the same way, one at a time, so
// every node receives a coordinate.
//
// Several roots hang under a virtual root that only exists during placement. Leaves
// take consecutive horizontal slots, parents are centred over their children, and
// the vertical coordinate is the tree depth. The result is recentred around x = 0
// with the roots at y = 0.
package layout
