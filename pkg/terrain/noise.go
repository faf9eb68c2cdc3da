package terrain

import "github.com/aquilax/go-perlin"

// Source is a single coherent-noise field. It wraps go-perlin's own
// gradient noise as the base kernel and layers fractal-Brownian octaves on
// top of it itself, the same way the corpus's hand-rolled simplex
// generators expose an OctaveNoise2D/3D on top of a single-octave Noise2D/3D
// primitive: the *Source stays in charge of frequency/amplitude scheduling,
// go-perlin only supplies the underlying gradient noise.
type Source struct {
	p *perlin.Perlin
}

// NewSource creates a noise field seeded deterministically from seed.
func NewSource(seed int64) *Source {
	return &Source{p: perlin.NewPerlin(2.0, 2.0, 1, seed)}
}

// Noise2D returns single-octave noise, roughly in [-1, 1].
func (s *Source) Noise2D(x, y float64) float64 {
	return s.p.Noise2D(x, y)
}

// Noise3D returns single-octave 3D noise, roughly in [-1, 1].
func (s *Source) Noise3D(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z)
}

// Octave2D layers octaves of 2D noise into an fBm field, normalized so the
// result stays within roughly [-1, 1].
func (s *Source) Octave2D(x, y float64, octaves int, persistence float64) float64 {
	var total, amplitude, maxVal float64
	frequency := 1.0
	amplitude = 1.0
	for i := 0; i < octaves; i++ {
		total += s.Noise2D(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// Octave3D layers octaves of 3D noise into an fBm field.
func (s *Source) Octave3D(x, y, z float64, octaves int, persistence float64) float64 {
	var total, amplitude, maxVal float64
	frequency := 1.0
	amplitude = 1.0
	for i := 0; i < octaves; i++ {
		total += s.Noise3D(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}

// Ridged3D transforms the field into a ridged form: values close to zero
// crossings produce ridges near 1, values near +-1 fall toward 0. Used for
// the cave fields, which threshold on ridges rather than raw noise.
func (s *Source) Ridged3D(x, y, z float64) float64 {
	n := s.Noise3D(x, y, z)
	if n < 0 {
		n = -n
	}
	return 1 - n
}
