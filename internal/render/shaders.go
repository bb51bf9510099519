package render

import "fmt"

const vertexTemplate = `#version 330 core
layout(location = 0) in vec2 in_pos;
void main() {
    gl_PointSize = %.2f;
    gl_Position = vec4(in_pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const fragmentTemplate = `#version 330 core
out vec4 fragColor;
void main() {
    fragColor = vec4(%.4f, %.4f, %.4f, %.4f);
}
`

// Style holds the constants baked into the shader pair. The fragment
// stage has no uniforms.
type Style struct {
	PointSize float32
	Color     [4]float32
}

// DefaultStyle is 3px orange points.
func DefaultStyle() Style {
	return Style{
		PointSize: 3.0,
		Color:     [4]float32{1.0, 0.6, 0.1, 1.0},
	}
}

// VertexSource returns the vertex shader with the point size filled in.
func (s Style) VertexSource() string {
	return fmt.Sprintf(vertexTemplate, s.PointSize)
}

// FragmentSource returns the fragment shader with the color filled in.
func (s Style) FragmentSource() string {
	c := s.Color
	return fmt.Sprintf(fragmentTemplate, c[0], c[1], c[2], c[3])
}
