/*
Package cnc25d converts polyline outlines annotated with router-bit radii into
contours made of straight segments and circular arcs that a 2.5 axis CNC router or a
laser cutter can make.

Three outline formats coexist:

  - OutlineA is the authoring format. Every Corner holds the segment arriving at a
    point and the router-bit request at that point.
  - OutlineB is the transport format consumed by Sinks (DXF, SVG, STL writers).
  - OutlineC holds points with tangent inclinations, as produced by the involute sampler.

The corner package turns an OutlineA into an OutlineB. The involute and gear packages
generate gear outlines in the same formats.
*/
package cnc25d
