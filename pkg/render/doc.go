// Package render turns graphs and layouts into viewable artifacts.
//
// Two rendering paths exist:
//
//   - [LayoutSVG] draws the geometry the force layout produced, one
//     rectangle per node and one line per edge. This is the faithful
//     view of the layout engine's output.
//   - [ToDOT] plus [RenderSVG]/[RenderPNG] hand the graph to Graphviz,
//     which applies its own hierarchical layout. Useful for quick
//     structural views and for PNG output.
//
// Both paths style nodes by kind (folder, file, item) with the same
// palette.
package render
