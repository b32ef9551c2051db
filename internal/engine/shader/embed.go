package shader

import _ "embed"

// Lit, vertex-coloured surface.
//
//go:embed glsl/surface.vert
var SurfaceVertex string

//go:embed glsl/surface.frag
var SurfaceFragment string

// Unlit coloured lines for the bounding box and floor grid.
//
//go:embed glsl/line.vert
var LineVertex string

//go:embed glsl/line.frag
var LineFragment string
