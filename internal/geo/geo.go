package geo

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a minimal bounding rectangle over a set of points.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// Viewport tells a map client where to look. For a single point only Center
// and Zoom are set; for multiple points Bounds carries the padded rectangle
// the client should fit.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// singlePointZoom is the fixed zoom used when only one device is plotted.
const singlePointZoom = 13

// minPad keeps degenerate rectangles (all points on one line, or duplicates)
// visibly sized after padding.
const minPad = 0.002

// FitViewport derives a viewport containing all points.
//
// Zero points: no viewport (ok=false), the caller keeps whatever view it had.
// One point: centered at it with a moderate fixed zoom.
// Multiple points: minimal bounding rectangle, padded on each side by the
// given fraction of that side's span.
func FitViewport(points []LatLng, padding float64) (Viewport, bool) {
	switch len(points) {
	case 0:
		return Viewport{}, false
	case 1:
		return Viewport{Center: points[0], Zoom: singlePointZoom}, true
	}

	b := boundsOf(points)
	padded := pad(b, padding)
	return Viewport{
		Center: center(b),
		Bounds: &padded,
	}, true
}

func boundsOf(points []LatLng) Bounds {
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		if p.Lat < b.SouthWest.Lat {
			b.SouthWest.Lat = p.Lat
		}
		if p.Lat > b.NorthEast.Lat {
			b.NorthEast.Lat = p.Lat
		}
		if p.Lng < b.SouthWest.Lng {
			b.SouthWest.Lng = p.Lng
		}
		if p.Lng > b.NorthEast.Lng {
			b.NorthEast.Lng = p.Lng
		}
	}
	return b
}

func pad(b Bounds, fraction float64) Bounds {
	if fraction < 0 {
		fraction = 0
	}
	latPad := (b.NorthEast.Lat - b.SouthWest.Lat) * fraction
	lngPad := (b.NorthEast.Lng - b.SouthWest.Lng) * fraction
	if latPad < minPad {
		latPad = minPad
	}
	if lngPad < minPad {
		lngPad = minPad
	}
	return Bounds{
		SouthWest: LatLng{Lat: b.SouthWest.Lat - latPad, Lng: b.SouthWest.Lng - lngPad},
		NorthEast: LatLng{Lat: b.NorthEast.Lat + latPad, Lng: b.NorthEast.Lng + lngPad},
	}
}

func center(b Bounds) LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}
