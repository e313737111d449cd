package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
)

// skybox is an equirectangular environment map stored as linear RGB
// float32, three values per texel. Rays that escape the scene sample it by
// direction; both kernel backends use the same latitude/longitude mapping.
type skybox struct {
	width, height int
	pixels        []float32
}

// loadSkybox decodes a PNG or JPEG environment map and converts it from
// sRGB to linear RGB.
func loadSkybox(path string) (*skybox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skybox: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding skybox: %w", err)
	}
	bounds := img.Bounds()
	s := &skybox{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pixels: make([]float32, bounds.Dx()*bounds.Dy()*3),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			s.pixels[i] = srgbToLinear(float64(r) / 0xffff)
			s.pixels[i+1] = srgbToLinear(float64(g) / 0xffff)
			s.pixels[i+2] = srgbToLinear(float64(b) / 0xffff)
			i += 3
		}
	}
	return s, nil
}

// proceduralSkybox generates a simple horizon-to-zenith gradient with a
// warm band near the horizon, used when no map is supplied.
func proceduralSkybox() *skybox {
	s := &skybox{
		width:  proceduralSkyW,
		height: proceduralSkyH,
		pixels: make([]float32, proceduralSkyW*proceduralSkyH*3),
	}
	zenith := vec3{0.18, 0.34, 0.62}
	horizon := vec3{0.72, 0.78, 0.85}
	ground := vec3{0.22, 0.2, 0.18}
	warm := vec3{0.95, 0.7, 0.42}
	i := 0
	for y := 0; y < s.height; y++ {
		// Latitude from +1 at the zenith row to -1 at the nadir row.
		lat := 1 - 2*(float64(y)+0.5)/float64(s.height)
		var c vec3
		if lat >= 0 {
			t := math.Pow(lat, 0.65)
			c = horizon.scale(1 - t).add(zenith.scale(t))
			band := math.Exp(-lat * 14)
			c = c.add(warm.scale(0.35 * band))
		} else {
			t := math.Min(1, -lat*4)
			c = horizon.scale(1 - t).add(ground.scale(t))
		}
		for x := 0; x < s.width; x++ {
			s.pixels[i] = float32(c.x)
			s.pixels[i+1] = float32(c.y)
			s.pixels[i+2] = float32(c.z)
			i += 3
		}
	}
	return s
}

// sample returns the environment color along a unit direction using the
// standard equirectangular mapping with nearest-texel lookup.
func (s *skybox) sample(dir vec3) vec3 {
	u := 0.5 + math.Atan2(dir.x, -dir.z)/(2*math.Pi)
	v := math.Acos(clampFloat(dir.y, -1, 1)) / math.Pi
	x := clampCoord(int(u*float64(s.width)), 0, s.width-1)
	y := clampCoord(int(v*float64(s.height)), 0, s.height-1)
	i := (y*s.width + x) * 3
	return vec3{float64(s.pixels[i]), float64(s.pixels[i+1]), float64(s.pixels[i+2])}
}

// srgbToLinear converts one sRGB channel in [0,1] to linear light.
func srgbToLinear(c float64) float32 {
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}
